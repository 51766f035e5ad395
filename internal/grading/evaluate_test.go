package grading

import (
	"strings"
	"testing"
)

func TestEvaluate_Numbers(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"42", "42"},
		{"1+2*3", "7"},
		{"(1+2)*3", "9"},
		{"(1)/(2)", "0.5"},
		{"(2)/(4)", "0.5"},
		{"10-4-3", "3"},
		{"2^10", "1024"},
		{"2^3^2", "512"},
		{"-2^2", "-4"},
		{"2^-1", "0.5"},
		{"pow(2,10)", "1024"},
		{"5!", "120"},
		{"3!^2", "36"},
		{"factorial(0)", "1"},
		{"factorial(25)", "15511210043330985984000000"},
		{"combinations(5,2)", "10"},
		{"combinations(5,0)", "1"},
		{"combinations(100,50)", "100891344545564193334812497256"},
		{"sqrt(16)", "4"},
		{"sqrt((1)/(4))", "0.5"},
		{"2(3)", "6"},
		{"(2)(3)", "6"},
		{"2sqrt(4)", "4"},
		{"1e3", "1000"},
		{".5", "0.5"},
		{"cos(0)", "1"},
		{"sin(0)", "0"},
		{" 1 + 1 ", "2"},
		{"+3", "3"},
	}

	for _, tc := range tests {
		v := Evaluate(tc.expr)
		if !v.IsNumber() {
			t.Errorf("Evaluate(%q) kind = %v, want number", tc.expr, v.Kind)
			continue
		}
		if got := v.String(); got != tc.want {
			t.Errorf("Evaluate(%q) = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluate_ApproximateValues(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"2pi", "pi+pi"},
		{"sin(pi)", "0"},
		{"cos(pi)", "-1"},
		{"tan((pi)/(4))", "1"},
		{"sin((pi)/(6))", "0.5"},
		{"cos(2pi+1)", "cos(1)"},
		{"sin(-(pi)/(2))", "-1"},
		{"pow(sqrt(2),2)", "2"},
		{"e", "2.718281828459045235360287"},
		{"pi", "3.14159265358979323846"},
	}

	for _, tc := range tests {
		a, b := Evaluate(tc.a), Evaluate(tc.b)
		if !Equal(a, b) {
			t.Errorf("Evaluate(%q) = %s, want ≈ Evaluate(%q) = %s", tc.a, a, tc.b, b)
		}
	}
}

func TestEvaluate_Unevaluable(t *testing.T) {
	exprs := []string{
		"1/0",
		"(1)/(0)",
		"sqrt(-1)",
		"pow(-8,(1)/(3))",
		"pow(0,-1)",
		"combinations(2,5)",
		"combinations(2.5,1)",
		"factorial(-1)",
		"factorial(0.5)",
		"factorial(100000)",
		"tan((pi)/(2))",
		"sin(1e60)",
	}

	for _, expr := range exprs {
		if v := Evaluate(expr); v.Kind != KindUnevaluable {
			t.Errorf("Evaluate(%q) kind = %v, want unevaluable", expr, v.Kind)
		}
	}
}

func TestEvaluate_Text(t *testing.T) {
	exprs := []string{
		"",
		"abc",
		"x+1",
		"1+",
		"1.2.3",
		"(1",
		"1)",
		`\alpha`,
		"sqrt(1,2)",
		"pow(2)",
		"unknown(3)",
		"2,3",
	}

	for _, expr := range exprs {
		if v := Evaluate(expr); v.Kind != KindText {
			t.Errorf("Evaluate(%q) kind = %v, want text", expr, v.Kind)
		}
	}
}

func TestEvaluate_OverlongIsUnevaluable(t *testing.T) {
	expr := strings.Repeat("1+", MaxInputLength) + "1"
	if v := Evaluate(expr); v.Kind != KindUnevaluable {
		t.Errorf("overlong input kind = %v, want unevaluable", v.Kind)
	}
}

func TestEvaluate_FactorialWorkIsBounded(t *testing.T) {
	if v := Evaluate(strings.Repeat("10000!+", 400) + "1"); v.Kind != KindUnevaluable {
		t.Errorf("repeated large factorials kind = %v, want unevaluable", v.Kind)
	}
	if v := Evaluate(strings.Repeat("combinations(20000,10000)+", 10) + "1"); v.Kind != KindUnevaluable {
		t.Errorf("repeated large binomials kind = %v, want unevaluable", v.Kind)
	}
	if v := Evaluate(strings.Repeat("10000!+", 3) + "10000!"); !v.IsNumber() {
		t.Errorf("four large factorials kind = %v, want number", v.Kind)
	}
	if v := Evaluate(strings.Repeat("5!+", 1000) + "5!"); !v.IsNumber() {
		t.Errorf("many small factorials kind = %v, want number", v.Kind)
	}
}

func TestEvaluate_BeyondFloatPrecision(t *testing.T) {
	// 2^60 + 1 and 2^60 are the same float64.
	a := Evaluate("pow(2,60)+1")
	b := Evaluate("pow(2,60)")
	if Equal(a, b) {
		t.Errorf("expected %s and %s to differ", a, b)
	}

	// 30! / 29! is exactly 30.
	c := Evaluate("(factorial(30))/(factorial(29))")
	if got := c.String(); got != "30" {
		t.Errorf("30!/29! = %s, want 30", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers equal", Evaluate("0.5"), Evaluate("(1)/(2)"), true},
		{"numbers differ", Evaluate("0.5"), Evaluate("0.6"), false},
		{"boundary inclusive", Evaluate("1"), Evaluate("1.0000000001"), true},
		{"just past boundary", Evaluate("1"), Evaluate("1.00000000010000000001"), false},
		{"both unevaluable", Evaluate("1/0"), Evaluate("1/0"), false},
		{"number and unevaluable", Evaluate("1"), Evaluate("1/0"), false},
		{"text equal", textValue(" none "), textValue("none"), true},
		{"text differs", textValue("none"), textValue("None"), false},
		{"number and text", Evaluate("1"), textValue("1"), false},
		{"zero values", Value{}, Value{}, false},
	}

	for _, tc := range tests {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Equal(%s, %s) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}
