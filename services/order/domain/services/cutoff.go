package services

import (
	"fmt"
	"time"

	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
)

// DefaultCutoff is 22:00 local time.
const DefaultCutoff = 22 * time.Hour

// CheckCutoff returns ErrOrderWindowClosed when a non-admin tries to order at
// or after cutoff, measured as wall-clock time since midnight in now's
// location. Admins are never cut off.
func CheckCutoff(role models.Role, now time.Time, cutoff time.Duration) error {
	if role.IsAdmin() {
		return nil
	}
	if sinceMidnight(now) < cutoff {
		return nil
	}
	return fmt.Errorf("%w: orders close at %02d:%02d, now %s",
		orderdomain.ErrOrderWindowClosed,
		int(cutoff.Hours()), int(cutoff.Minutes())%60, now.Format("15:04:05"))
}

func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}
