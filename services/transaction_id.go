package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/paint-queue/models"
)

const transactionDateLayout = "02012006"

var (
	sequencePattern      = regexp.MustCompile(`^\d{4}$`)
	transactionIDPattern = regexp.MustCompile(`^\d{8}-\d{4}$`)
)

// GenerateTransactionID builds the candidate id for an order placed on day
// with the given daily sequence number, e.g. 28012025-0001.
func GenerateTransactionID(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", day.Format(transactionDateLayout), seq)
}

// ParseSequence accepts an operator-entered sequence, which must be
// exactly four digits.
func ParseSequence(input string) (int, error) {
	input = strings.TrimSpace(input)
	if !sequencePattern.MatchString(input) {
		return 0, &ValidationError{Field: "sequence", Message: "transaction id must be exactly 4 digits"}
	}
	return strconv.Atoi(input)
}

func ValidTransactionID(id string) bool {
	return transactionIDPattern.MatchString(id)
}

// NextSequence returns one past the highest sequence already used on day.
func NextSequence(orders []models.Order, day time.Time) (int, error) {
	prefix := day.Format(transactionDateLayout) + "-"
	highest := 0
	for _, o := range orders {
		if !strings.HasPrefix(o.TransactionID, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(o.TransactionID, prefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if highest >= 9999 {
		return 0, &ValidationError{
			Field:   "sequence",
			Message: fmt.Sprintf("all transaction ids for %s are used up", day.Format(transactionDateLayout)),
		}
	}
	return highest + 1, nil
}
