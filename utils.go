package redisdict

import (
	"strings"

	"github.com/pkg/errors"
)

// BundleErr collects the errors of a series of calls
type BundleErr struct {
	errs []error
}

func (be *BundleErr) Add(err error) *BundleErr {
	if err != nil {
		be.errs = append(be.errs, err)
	}

	return be
}

// Err returns nil when nothing failed
func (be *BundleErr) Err() error {
	switch len(be.errs) {
	case 0:
		return nil
	case 1:
		return be.errs[0]
	}

	msgs := make([]string, 0, len(be.errs))
	for _, err := range be.errs {
		msgs = append(msgs, err.Error())
	}

	return errors.Wrapf(be.errs[0], "%d errors: %s", len(be.errs), strings.Join(msgs, "; "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
