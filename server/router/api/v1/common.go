package v1

import (
	"strconv"

	"github.com/pkg/errors"
)

func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid id %q", raw)
	}
	return int32(id), nil
}
