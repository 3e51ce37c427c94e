package walker

import "sync"

// dirQueue is an unbounded work list of directories shared by the walk
// workers. pending counts directories queued or being listed; when it drops
// to zero nothing can produce more work and every waiting worker is released.
type dirQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	dirs    []dirTask
	pending int
	closed  bool
}

// dirTask is a directory waiting to be listed together with the identities of
// the directories it was reached through.
type dirTask struct {
	path   string
	parent *ancestor
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *dirQueue) push(task dirTask) {
	q.mu.Lock()
	q.dirs = append(q.dirs, task)
	q.pending++
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a directory is available. It returns false once the walk
// is finished or the queue has been closed.
func (q *dirQueue) pop() (dirTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.dirs) == 0 && q.pending > 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed || len(q.dirs) == 0 {
		return dirTask{}, false
	}

	last := len(q.dirs) - 1
	task := q.dirs[last]
	q.dirs[last] = dirTask{}
	q.dirs = q.dirs[:last]
	return task, true
}

// done marks one popped directory as fully listed
func (q *dirQueue) done() {
	q.mu.Lock()
	q.pending--
	finished := q.pending == 0
	q.mu.Unlock()
	if finished {
		q.cond.Broadcast()
	}
}

// close abandons the remaining work
func (q *dirQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
