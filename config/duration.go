package config

import (
	"fmt"
	"strconv"
	"time"
)

// Duration is time.Duration, which is represented in JSON as a Go duration string
// ("90s", "1m30s"). Plain numbers are accepted as well and treated as nanoseconds.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '"' {
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("bad duration %s: %w", data, err)
		}

		*d = Duration(n)
		return nil
	}

	str, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("bad duration %s: %w", data, err)
	}

	parsed, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(parsed)
	return nil
}
