package talent

import (
	"fmt"
	"slices"
	"testing"

	"github.com/fiktools/calctree/pkg/errors"
)

func TestBuildCode(t *testing.T) {
	if got := BuildCode("weapon focus", "", "longsword"); got != "weapon focus!longsword" {
		t.Errorf("BuildCode = %q", got)
	}
	if got := BuildCode("weapon focus", "greater weapon focus", ""); got != "greater weapon focus!" {
		t.Errorf("BuildCode(override) = %q", got)
	}
	code, addendum := Components("weapon focus!longsword")
	if code != "weapon focus" || addendum != "longsword" {
		t.Errorf("Components = %q, %q", code, addendum)
	}
	if code, addendum := Components("dodge"); code != "dodge" || addendum != "" {
		t.Errorf("Components(no separator) = %q, %q", code, addendum)
	}
}

func TestDisplayName(t *testing.T) {
	catalog := Catalog{"dodge": "dodge", "power attack": "power attack"}
	tests := []struct {
		code, override, addendum string
		want                     string
	}{
		{"dodge", "", "", "Dodge"},
		{"dodge", "power attack", "", "Power Attack"},
		{"weapon focus", "", "longsword", "Weapon Focus (unrecognised talent) (Longsword)"},
	}
	for _, tt := range tests {
		if got := DisplayName(catalog, tt.code, tt.override, tt.addendum); got != tt.want {
			t.Errorf("DisplayName(%q, %q, %q) = %q, want %q", tt.code, tt.override, tt.addendum, got, tt.want)
		}
	}
}

func TestStackingName(t *testing.T) {
	tests := []struct {
		name  string
		count float64
		want  string
	}{
		{"Sneak Attack +{1/2}d6", 5, "Sneak Attack +2d6"},
		{"Rage {{1}}/day", 3, "Rage 3/day"},
		{"Smite {{2}} times, +{1/3}", 6, "Smite 12 times, +2"},
		{"Plain Talent", 4, "Plain Talent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StackingName(tt.name, tt.count)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("StackingName(%q, %v) = %q, want %q", tt.name, tt.count, got, tt.want)
			}
		})
	}
}

func TestStackingName_Invalid(t *testing.T) {
	for _, name := range []string{"Bad {x}", "Bad {1/0}", "Bad {1/y}"} {
		_, err := StackingName(name, 2)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("StackingName(%q) error = %v, want INVALID_INPUT", name, err)
		}
	}
}

func TestList(t *testing.T) {
	var l List
	if l.String() != "|" {
		t.Errorf("empty list = %q", l.String())
	}
	if !l.Add("Weapon Focus", "Longsword") {
		t.Error("Add should report a change")
	}
	if l.Add("weapon focus", "longsword") {
		t.Error("second Add should be a no-op")
	}
	l.Add("Dodge", "")

	if got := l.String(); got != "|weapon focus!longsword|dodge!|" {
		t.Errorf("String() = %q", got)
	}
	if !l.Has("WEAPON FOCUS", "longsword") || !l.Has("dodge", "") {
		t.Error("Has should find both talents")
	}
	if l.Has("dodge", "x") {
		t.Error("Has should match the addendum")
	}
	if a, ok := l.Addendum("weapon focus"); !ok || a != "longsword" {
		t.Errorf("Addendum = %q, %v", a, ok)
	}
	if _, ok := l.Addendum("cleave"); ok {
		t.Error("Addendum(cleave) should be missing")
	}
	if got := l.Codes(); !slices.Equal(got, []string{"weapon focus!longsword", "dodge!"}) {
		t.Errorf("Codes() = %v", got)
	}
}

func ExampleStackingName() {
	name, _ := StackingName("Channel Energy {1/2}d6", 7)
	fmt.Println(name)
	// Output: Channel Energy 3d6
}
