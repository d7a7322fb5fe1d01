package validation

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-studio/internal/types"
)

const monthLayout = "2006-01"

// ValidateWorkExperienceDates checks a work-experience period pair in the
// ISO "YYYY-MM" edit format. It returns nil when the range is valid.
//
// "Present" is always a valid end regardless of the start. Otherwise both
// ends must parse, neither may be a future month, and the end must not be
// earlier than the start. A non-empty field that fails to parse is itself
// an error.
func ValidateWorkExperienceDates(periodFrom, periodTo string, now time.Time) error {
	if periodTo == types.PresentToken {
		return nil
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var from time.Time
	if periodFrom != "" {
		var err error
		from, err = time.Parse(monthLayout, periodFrom)
		if err != nil {
			return fmt.Errorf("start date %q is not a valid month", periodFrom)
		}
		if from.After(current) {
			return fmt.Errorf("start date %s is in the future", periodFrom)
		}
	}

	if periodTo == "" {
		return nil
	}
	to, err := time.Parse(monthLayout, periodTo)
	if err != nil {
		return fmt.Errorf("end date %q is not a valid month", periodTo)
	}
	if to.After(current) {
		return fmt.Errorf("end date %s is in the future", periodTo)
	}
	if periodFrom != "" && to.Before(from) {
		return fmt.Errorf("end date %s is earlier than start date %s", periodTo, periodFrom)
	}
	return nil
}
