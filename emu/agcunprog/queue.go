/*
   AGC unprogrammed-sequence queue.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package agcunprog implements the bounded unprogrammed-sequence queue: the
// micro-operations (PINC, MINC, PCDU, MCDU, DINC, SHINC, RUPT, GOJ) that the
// scaler and interrupt logic inject between instructions. The execution
// core drains the whole queue at the start of each Step, before the next
// instruction fetch.
package agcunprog

import "log/slog"

// Op identifies an unprogrammed-sequence micro-operation.
type Op int

const (
	PINC Op = iota
	MINC
	PCDU
	MCDU
	DINC
	SHINC
	SHANC
	RUPT
	GOJ
)

// Capacity is the hardware FIFO depth; entries beyond this are dropped.
const Capacity = 8

// Queue is a bounded FIFO of pending unprogrammed sequences.
type Queue struct {
	entries [Capacity]Op
	head    int
	len     int
}

// Push enqueues an operation, silently dropping it (after a log warning) if
// the queue is already full — the hardware offered no guarantee that every
// pulse would be counted under burst overload.
func (q *Queue) Push(op Op) {
	if q.len == Capacity {
		slog.Warn("agcunprog: queue full, dropping op", "op", op)
		return
	}
	q.entries[(q.head+q.len)%Capacity] = op
	q.len++
}

// Pop removes and returns the oldest pending operation. ok is false if the
// queue was empty.
func (q *Queue) Pop() (op Op, ok bool) {
	if q.len == 0 {
		return 0, false
	}
	op = q.entries[q.head]
	q.head = (q.head + 1) % Capacity
	q.len--
	return op, true
}

// Len reports the number of pending entries.
func (q *Queue) Len() int {
	return q.len
}

// Empty reports whether the queue has no pending entries.
func (q *Queue) Empty() bool {
	return q.len == 0
}
