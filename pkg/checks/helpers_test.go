package checks_test

import (
	"github.com/arthur-debert/presubmit/pkg/config"
)

func testConfig() *config.Config {
	return config.Default()
}
