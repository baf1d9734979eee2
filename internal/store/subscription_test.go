package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func snapshotOf(ids ...string) Snapshot {
	tasks := make([]*task.Task, len(ids))
	for i, id := range ids {
		tasks[i] = &task.Task{ID: id}
	}
	return Snapshot{Tasks: tasks}
}

func TestSubscriptionNewestWins(t *testing.T) {
	b := newBroker()
	sub := b.add("u1")

	b.publish("u1", snapshotOf("a"))
	b.publish("u1", snapshotOf("a", "b"))
	b.publish("u1", snapshotOf("a", "b", "c"))

	snap := <-sub.C()
	assert.Len(t, snap.Tasks, 3)

	select {
	case <-sub.C():
		t.Fatal("stale snapshot delivered")
	default:
	}
}

func TestBrokerIsolatesOwners(t *testing.T) {
	b := newBroker()
	mine := b.add("u1")
	theirs := b.add("u2")

	b.publish("u1", snapshotOf("a"))

	require.Len(t, (<-mine.C()).Tasks, 1)
	select {
	case <-theirs.C():
		t.Fatal("snapshot leaked to another owner")
	default:
	}
}

func TestUnsubscribeRemovesFromBroker(t *testing.T) {
	b := newBroker()
	sub := b.add("u1")
	assert.True(t, b.has("u1"))

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.False(t, b.has("u1"))
	assert.Empty(t, b.owners())

	// Delivery after unsubscribe is a no-op.
	sub.deliver(snapshotOf("a"))
	_, ok := <-sub.C()
	assert.False(t, ok)
}

func TestCloseAll(t *testing.T) {
	b := newBroker()
	s1 := b.add("u1")
	s2 := b.add("u2")
	b.closeAll()

	_, ok1 := <-s1.C()
	_, ok2 := <-s2.C()
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestCloneAllIsDeep(t *testing.T) {
	in := snapshotOf("a").Tasks
	out := cloneAll(in)
	out[0].ID = "changed"
	assert.Equal(t, "a", in[0].ID)
}

func TestInitialSnapshotNeverReplacesNewerPublish(t *testing.T) {
	b := newBroker()
	sub := b.add("u1")

	b.publish("u1", snapshotOf("a", "b"))
	sub.deliverInitial(snapshotOf("a"))

	assert.Len(t, (<-sub.C()).Tasks, 2)

	fresh := b.add("u1")
	fresh.deliverInitial(snapshotOf("a"))
	assert.Len(t, (<-fresh.C()).Tasks, 1)
}

func TestUnsubscribeClosesDone(t *testing.T) {
	sub := newBroker().add("u1")
	unsubscribeOn(context.Background(), sub)

	sub.Unsubscribe()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after unsubscribe")
	}
}

func TestUnsubscribeOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := newBroker()
	sub := b.add("u1")
	unsubscribeOn(ctx, sub)

	cancel()
	assert.Eventually(t, func() bool { return !b.has("u1") }, time.Second, 10*time.Millisecond)
}
