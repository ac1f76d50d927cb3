package engine

import (
	"fmt"
	"math/big"
)

// CatalogueVersion is the version of DefaultCatalogue. It changes whenever the default test points change.
const CatalogueVersion = 1

// PointClass is a category of test points. Each category exposes a different kind of inequivalence.
type PointClass uint8

// PointClass is one of these values.
const (
	// PointClassZero detects off-by-constant errors and hidden divisions.
	PointClassZero PointClass = iota

	// PointClassSmall detects off-by-constant and sign errors.
	PointClassSmall

	// PointClassPrime detects errors which depend on factorization such as a wrong GCD-based simplification.
	PointClassPrime

	// PointClassComposite is the counterpart of PointClassPrime.
	PointClassComposite

	// PointClassLarge detects errors which only show up with large magnitude.
	PointClassLarge

	// PointClassProperFraction detects expressions which silently assume integer inputs.
	PointClassProperFraction

	// PointClassImproperFraction detects errors in order of operations and rounding toward an integer.
	PointClassImproperFraction

	// PointClassTiny detects errors which only show up near zero.
	PointClassTiny

	pointClassLen
)

func (c PointClass) String() string {
	return [pointClassLen]string{
		PointClassZero:             "zero",
		PointClassSmall:            "small",
		PointClassPrime:            "prime",
		PointClassComposite:        "composite",
		PointClassLarge:            "large",
		PointClassProperFraction:   "proper fraction",
		PointClassImproperFraction: "improper fraction",
		PointClassTiny:             "tiny",
	}[c]
}

var (
	smallLimit = big.NewInt(3)
	largeLimit = big.NewInt(1000)
	tinyLimit  = big.NewRat(1, 1000)
	one        = big.NewRat(1, 1)
)

// Classify returns the class which the number belongs to.
func Classify(n Number) PointClass {
	var r *big.Rat
	switch n := n.(type) {
	case Float:
		r = new(big.Rat).SetFloat64(float64(n))
	default:
		r, _ = exact(n)
	}
	if r == nil {
		return PointClassLarge
	}

	a := new(big.Rat).Abs(r)
	switch {
	case a.Sign() == 0:
		return PointClassZero
	case !a.IsInt() && a.Cmp(tinyLimit) <= 0:
		return PointClassTiny
	case !a.IsInt() && a.Cmp(one) < 0:
		return PointClassProperFraction
	case !a.IsInt():
		return PointClassImproperFraction
	}

	i := a.Num()
	switch {
	case i.Cmp(smallLimit) <= 0:
		return PointClassSmall
	case i.Cmp(largeLimit) >= 0:
		return PointClassLarge
	case i.ProbablyPrime(20):
		return PointClassPrime
	default:
		return PointClassComposite
	}
}

// TestPoint is a value which variables are bound to.
type TestPoint struct {
	Value Number
	Class PointClass
}

func (p TestPoint) String() string {
	return fmt.Sprintf("%s (%s)", p.Value, p.Class)
}

// Catalogue is an immutable ordered sequence of test points.
type Catalogue struct {
	points []TestPoint
}

// NewCatalogue creates a catalogue of the test points.
func NewCatalogue(points ...TestPoint) Catalogue {
	ps := make([]TestPoint, len(points))
	copy(ps, points)
	return Catalogue{points: ps}
}

// NewCatalogueOf creates a catalogue of the numbers, each of which is classified by Classify.
func NewCatalogueOf(ns ...Number) Catalogue {
	ps := make([]TestPoint, len(ns))
	for i, n := range ns {
		ps[i] = TestPoint{Value: n, Class: Classify(n)}
	}
	return Catalogue{points: ps}
}

// ParseCatalogue creates a catalogue from textual numbers such as "0", "-3/4", or "0.001".
func ParseCatalogue(values []string) (Catalogue, error) {
	ns := make([]Number, len(values))
	for i, v := range values {
		n, err := ParseNumber(v)
		if err != nil {
			return Catalogue{}, fmt.Errorf("test point #%d: %w", i, err)
		}
		ns[i] = n
	}
	return NewCatalogueOf(ns...), nil
}

// Len returns the number of test points.
func (c Catalogue) Len() int {
	return len(c.points)
}

// At returns the i-th test point.
func (c Catalogue) At(i int) TestPoint {
	return c.points[i]
}

// Points returns a copy of the test points.
func (c Catalogue) Points() []TestPoint {
	ps := make([]TestPoint, len(c.points))
	copy(ps, c.points)
	return ps
}

// Classes returns the number of test points per class.
func (c Catalogue) Classes() map[PointClass]int {
	m := map[PointClass]int{}
	for _, p := range c.points {
		m[p.Class]++
	}
	return m
}

// Every positive value is followed by its negative counterpart.
var defaultTestPoints = []string{
	// zero
	"0",

	// small
	"1", "-1", "2", "-2", "3", "-3",

	// prime
	"5", "-5", "7", "-7", "11", "-11", "13", "-13", "17", "-17", "97", "-97",

	// composite
	"4", "-4", "6", "-6", "9", "-9", "12", "-12", "15", "-15", "100", "-100",

	// large
	"1000", "-1000", "65536", "-65536", "1000003", "-1000003",

	// proper fraction
	"1/2", "-1/2", "1/3", "-1/3", "2/3", "-2/3", "3/4", "-3/4", "5/7", "-5/7",

	// improper fraction
	"3/2", "-3/2", "5/3", "-5/3", "7/4", "-7/4", "22/7", "-22/7",

	// tiny
	"1/1000", "-1/1000", "1/65536", "-1/65536", "1/1000000", "-1/1000000",
}

var defaultCatalogue = func() Catalogue {
	c, err := ParseCatalogue(defaultTestPoints)
	if err != nil {
		panic(err)
	}
	return c
}()

// DefaultCatalogue returns the catalogue of CatalogueVersion.
func DefaultCatalogue() Catalogue {
	return defaultCatalogue
}
