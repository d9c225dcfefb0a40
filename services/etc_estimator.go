package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/paint-queue/models"
)

// EstimateETC returns the estimated wait in minutes for every order, keyed
// by transaction id. Orders are taken in the order given: each active
// order waits for the combined base time of the active orders ahead of it.
// Ready and Complete orders get 0 and add nothing to the queue.
func EstimateETC(orders []models.Order) map[string]int {
	etc := make(map[string]int, len(orders))
	running := 0
	for _, o := range orders {
		if !o.CurrentStatus.Active() {
			etc[o.TransactionID] = 0
			continue
		}
		etc[o.TransactionID] = running
		running += o.Category.BaseMinutes()
	}
	return etc
}

// QueuedMinutes is the total base time of every active order in the list.
func QueuedMinutes(orders []models.Order) int {
	total := 0
	for _, o := range orders {
		if o.CurrentStatus.Active() {
			total += o.Category.BaseMinutes()
		}
	}
	return total
}

// EstimatedCompletion is the wall-clock time the order should be done:
// queue wait plus its own base time, counted from now. Orders that left the
// queue are considered done as of now.
func EstimatedCompletion(order models.Order, etcMinutes int, now time.Time) time.Time {
	if !order.CurrentStatus.Active() {
		return now
	}
	return now.Add(time.Duration(etcMinutes+order.Category.BaseMinutes()) * time.Minute)
}

// FormatMinutes renders a wait as shown on the board, e.g. "2h 30m".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
