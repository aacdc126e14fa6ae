package exitizer_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ilya-burinskiy/repairguides/pkg/exitizer"
)

func TestExitizer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), exitizer.Analyzer, "exitcall")
}
