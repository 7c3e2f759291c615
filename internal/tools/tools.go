//go:build tools
// +build tools

package tools

import (
	_ "github.com/dkorunic/betteralign/cmd/betteralign"
	_ "honnef.co/go/tools/cmd/staticcheck"
)
