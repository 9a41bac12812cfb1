package util_test

import (
	"testing"

	"github.com/seanzhanng/teaelo/internal/util"
)

func TestNormalizeBrandName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"Chatime", "chatime"},
		{"  CHATIME ", "chatime"},
		{"CoCo  Fresh\tTea & Juice", "coco fresh tea & juice"},
		{"Gong cha", "gong cha"},
		{"", ""},
	}

	for _, c := range cases {
		if got := util.NormalizeBrandName(c.in); got != c.out {
			t.Errorf("NormalizeBrandName(%q) = %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestCleanStoreName(t *testing.T) {
	cases := []struct {
		in    string
		types []string
		out   string
	}{
		{"Chatime", nil, "Chatime"},
		{"Chatime Canada Ltd. | Waterloo", nil, "Chatime Canada"},
		{"Tiger Sugar - Flushing", nil, "Tiger Sugar"},
		{"The Alley @ Yorkdale", nil, "The Alley"},
		{"Boba Guys at Union Square", nil, "Boba Guys"},
		{"Machi Machi Co., Ltd.", nil, "Machi Machi"},
		{"Gong cha Bubble Tea Store", []string{"bubble_tea_store"}, "Gong cha"},
		{"Kung Fu Tea Cafe", []string{"cafe", "store"}, "Kung Fu Tea"},
		// A lone word is a name even when it looks like a legal suffix.
		{"Ltd.", nil, "Ltd."},
		{" | ", nil, "|"},
	}

	for _, c := range cases {
		if got := util.CleanStoreName(c.in, c.types); got != c.out {
			t.Errorf("CleanStoreName(%q, %v) = %q, expected %q", c.in, c.types, got, c.out)
		}
	}
}
