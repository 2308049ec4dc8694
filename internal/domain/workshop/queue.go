package workshop

// JobQueue is a FIFO of job refs with manual reordering. A ref appears at most once.
type JobQueue struct {
	refs []JobRef
}

// NewJobQueue creates a queue holding refs in order (duplicates dropped)
func NewJobQueue(refs ...JobRef) *JobQueue {
	q := &JobQueue{}
	for _, ref := range refs {
		q.PushBack(ref)
	}
	return q
}

// Len returns the number of queued refs
func (q *JobQueue) Len() int { return len(q.refs) }

// Entries returns a copy of the queued refs in order
func (q *JobQueue) Entries() []JobRef {
	return append([]JobRef(nil), q.refs...)
}

// Contains reports whether ref is queued
func (q *JobQueue) Contains(ref JobRef) bool {
	return q.indexOf(ref) >= 0
}

// PushBack appends ref; returns false if it is already queued
func (q *JobQueue) PushBack(ref JobRef) bool {
	if ref == "" || q.Contains(ref) {
		return false
	}
	q.refs = append(q.refs, ref)
	return true
}

// PushFront prepends ref; returns false if it is already queued
func (q *JobQueue) PushFront(ref JobRef) bool {
	if ref == "" || q.Contains(ref) {
		return false
	}
	q.refs = append([]JobRef{ref}, q.refs...)
	return true
}

// PopFront removes and returns the first ref
func (q *JobQueue) PopFront() (JobRef, bool) {
	if len(q.refs) == 0 {
		return "", false
	}
	ref := q.refs[0]
	q.refs = q.refs[1:]
	return ref, true
}

// Remove deletes ref from the queue
func (q *JobQueue) Remove(ref JobRef) bool {
	i := q.indexOf(ref)
	if i < 0 {
		return false
	}
	q.refs = append(q.refs[:i], q.refs[i+1:]...)
	return true
}

// MoveUp swaps ref with its predecessor. Moving the head is a no-op that
// still reports success.
func (q *JobQueue) MoveUp(ref JobRef) bool {
	i := q.indexOf(ref)
	if i < 0 {
		return false
	}
	if i > 0 {
		q.refs[i-1], q.refs[i] = q.refs[i], q.refs[i-1]
	}
	return true
}

func (q *JobQueue) indexOf(ref JobRef) int {
	for i, r := range q.refs {
		if r == ref {
			return i
		}
	}
	return -1
}
