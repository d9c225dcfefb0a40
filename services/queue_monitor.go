package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/paint-queue/models"
)

// QueueMonitor polls the Order Store and pushes a fresh board to the
// notifier whenever the active queue changes.
type QueueMonitor struct {
	Queue    *QueueService
	Interval time.Duration
	Timeout  time.Duration
	StopChan chan struct{}

	stopOnce    sync.Once
	fingerprint string
}

func NewQueueMonitor(queue *QueueService) *QueueMonitor {
	return &QueueMonitor{
		Queue:    queue,
		Interval: 5 * time.Second,
		Timeout:  10 * time.Second,
		StopChan: make(chan struct{}),
	}
}

func (qm *QueueMonitor) Start() {
	go func() {
		ticker := time.NewTicker(qm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				qm.CheckQueue()
			case <-qm.StopChan:
				return
			}
		}
	}()
}

func (qm *QueueMonitor) Stop() {
	qm.stopOnce.Do(func() { close(qm.StopChan) })
}

// CheckQueue fetches the active queue once and broadcasts it if it differs
// from the last one seen. It reports whether a broadcast happened.
func (qm *QueueMonitor) CheckQueue() bool {
	ctx, cancel := context.WithTimeout(context.Background(), qm.Timeout)
	defer cancel()

	board, err := qm.Queue.Board(ctx, models.RoleUser)
	if err != nil {
		qm.Queue.log.Errorf("queue monitor: error fetching board: %v", err)
		return false
	}

	fp := boardFingerprint(board)
	if fp == qm.fingerprint {
		return false
	}
	qm.fingerprint = fp
	qm.Queue.notify(EventBoardUpdate, board)
	qm.Queue.log.Debugf("queue monitor: board changed, %d active orders", len(board))
	return true
}

func boardFingerprint(board []BoardEntry) string {
	var b strings.Builder
	for _, e := range board {
		b.WriteString(e.TransactionID)
		b.WriteByte('|')
		b.WriteString(string(e.CurrentStatus))
		b.WriteByte('|')
		b.WriteString(e.AssignedEmployee)
		b.WriteByte('|')
		b.WriteString(e.ColourCode)
		b.WriteByte(';')
	}
	return b.String()
}
