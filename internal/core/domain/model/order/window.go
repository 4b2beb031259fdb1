package order

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

const (
	// DefaultWindowDuration is the span of a delivery window computed at
	// transit entry when the caller does not supply one.
	DefaultWindowDuration = 2 * time.Hour

	// HighConfidenceDistance is the grid distance at or below which a
	// computed window gets high confidence.
	HighConfidenceDistance = 3
)

// WindowConfidence expresses how reliable an estimated delivery window is.
type WindowConfidence string

const (
	// ConfidenceHigh is used for short distances where the estimate is tight.
	ConfidenceHigh WindowConfidence = "high"
	// ConfidenceMedium is used for longer distances.
	ConfidenceMedium WindowConfidence = "medium"
)

// Validate checks if the confidence is a defined level.
func (c WindowConfidence) Validate() error {
	if c != ConfidenceHigh && c != ConfidenceMedium {
		return errs.NewValueIsInvalidErrorWithCause("confidence", fmt.Errorf("%q is not a valid confidence", string(c)))
	}
	return nil
}

// DeliveryWindow is the estimated delivery interval communicated to the
// customer when the order enters transit.
type DeliveryWindow struct {
	start      time.Time
	end        time.Time
	confidence WindowConfidence
}

// NewDeliveryWindow creates a validated delivery window.
func NewDeliveryWindow(start, end time.Time, confidence WindowConfidence) (DeliveryWindow, error) {
	if err := confidence.Validate(); err != nil {
		return DeliveryWindow{}, err
	}
	if !end.After(start) {
		return DeliveryWindow{}, errs.NewValueIsInvalidErrorWithCause("deliveryWindow",
			fmt.Errorf("window end %s is not after start %s", end, start))
	}

	return DeliveryWindow{start: start, end: end, confidence: confidence}, nil
}

// ComputeDeliveryWindow derives the default window at transit entry.
// Confidence is high when the remaining grid distance is at most
// HighConfidenceDistance, medium otherwise.
func ComputeDeliveryWindow(now time.Time, distance int) DeliveryWindow {
	confidence := ConfidenceMedium
	if distance <= HighConfidenceDistance {
		confidence = ConfidenceHigh
	}

	return DeliveryWindow{
		start:      now,
		end:        now.Add(DefaultWindowDuration),
		confidence: confidence,
	}
}

// Start returns the beginning of the window.
func (w DeliveryWindow) Start() time.Time { return w.start }

// End returns the end of the window.
func (w DeliveryWindow) End() time.Time { return w.end }

// Confidence returns the estimate confidence level.
func (w DeliveryWindow) Confidence() WindowConfidence { return w.confidence }
