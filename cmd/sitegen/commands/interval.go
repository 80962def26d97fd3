package commands

import (
	"time"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func parseInterval(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, serrors.ValidationFailed("refresh", "must be a non-negative duration such as 10m")
	}
	return d, nil
}
