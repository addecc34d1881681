package collection

import (
	"sync"
)

// TSD is a timestamped datum held by a TimeSeriesBuffer.
type TSD interface {
	GetTimestamp() int64
}

// TimeSeriesBuffer is a fixed-capacity ring of timestamped data kept in
// chronological order. Appending in timestamp order is O(1); late arrivals
// are placed with a binary search. When the buffer is full the oldest entry
// is silently evicted.
type TimeSeriesBuffer struct {
	lock     sync.RWMutex
	data     []TSD
	capacity int
	cursor   int
	num      int64
}

func NewTimeSeriesBuffer(capacity int) *TimeSeriesBuffer {
	if capacity <= 0 {
		panic("invalid time series buffer capacity")
	}
	return &TimeSeriesBuffer{
		data:     make([]TSD, capacity),
		capacity: capacity,
	}
}

// headTail returns the buffer extent in unwrapped coordinates; callers must
// hold the lock and have checked the buffer is non-empty.
func (b *TimeSeriesBuffer) headTail() (int, int) {
	if b.data[b.cursor] == nil {
		return 0, b.cursor - 1
	}
	return b.cursor, b.cursor + b.capacity - 1
}

// search returns the first unwrapped position whose timestamp is >= t.
func (b *TimeSeriesBuffer) search(t int64) int {
	l, r := b.headTail()
	for l <= r {
		m := l + (r-l)/2
		if t <= b.data[m%b.capacity].GetTimestamp() {
			r = m - 1
		} else {
			l = m + 1
		}
	}
	return l
}

func (b *TimeSeriesBuffer) Put(d TSD) {
	b.lock.Lock()
	defer b.lock.Unlock()

	defer func() {
		b.num++
	}()

	if b.num == 0 || d.GetTimestamp() >= b.data[(b.cursor-1+b.capacity)%b.capacity].GetTimestamp() {
		b.data[b.cursor] = d
		b.cursor = (b.cursor + 1) % b.capacity
		return
	}

	pos := b.search(d.GetTimestamp())
	if pos == b.cursor && b.data[b.cursor] != nil {
		// older than everything retained in a full buffer
		return
	}

	end := b.cursor
	if b.data[end] != nil {
		end += b.capacity
	}
	for i := end; i > pos; i-- {
		b.data[i%b.capacity] = b.data[(i-1)%b.capacity]
	}
	b.data[pos%b.capacity] = d
	b.cursor = (b.cursor + 1) % b.capacity
}

// Range returns the retained data with timestamps in [start, end), in
// chronological order.
func (b *TimeSeriesBuffer) Range(start, end int64) []TSD {
	b.lock.RLock()
	defer b.lock.RUnlock()

	result := []TSD{}
	if b.num == 0 {
		return result
	}

	head, tail := b.headTail()
	from := b.search(start)
	if from < head {
		from = head
	}
	for i := from; i <= tail; i++ {
		d := b.data[i%b.capacity]
		if d.GetTimestamp() >= end {
			break
		}
		result = append(result, d)
	}
	return result
}

// Newest returns the most recent entry, or nil when the buffer is empty.
func (b *TimeSeriesBuffer) Newest() TSD {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.num == 0 {
		return nil
	}
	return b.data[(b.cursor-1+b.capacity)%b.capacity]
}

// Len is the number of entries currently retained.
func (b *TimeSeriesBuffer) Len() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.num < int64(b.capacity) {
		return int(b.num)
	}
	return b.capacity
}

func (b *TimeSeriesBuffer) Capacity() int {
	return b.capacity
}
