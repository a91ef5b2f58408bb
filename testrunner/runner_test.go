package testrunner

import "testing"

func TestFixturesUnderTestdataAllPass(t *testing.T) {
	results, summary := Run(Config{ScriptsDir: "../testdata/scripts"})
	if summary.Total == 0 {
		t.Fatal("expected to discover at least one fixture script")
	}
	for _, r := range results {
		if r.Result == Fail || r.Result == Error {
			t.Errorf("%s: %s: %s", r.Path, r.Result, r.Message)
		}
	}
	if summary.Passed == 0 {
		t.Error("expected at least one fixture to pass")
	}
}
