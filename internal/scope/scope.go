package scope

import "strconv"

// Depth classifies a descriptor's lifetime. Negative values are reserved
// bands, everything from zero upwards names the depth of the scope that owns
// the instance.
type Depth int

const (
	Transient      Depth = -1
	Singleton      Depth = -2
	ProviderScoped Depth = -3
)

// Root is the depth of the scope returned by a container build.
const Root = 0

func (d Depth) IsReserved() bool {
	return d == Transient || d == Singleton || d == ProviderScoped
}

// Valid reports whether d is a reserved band or a concrete depth.
func (d Depth) Valid() bool {
	return d.IsReserved() || d >= 0
}

func (d Depth) String() string {
	switch d {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case ProviderScoped:
		return "provider-scoped"
	default:
		if d < 0 {
			return "invalid(" + strconv.Itoa(int(d)) + ")"
		}
		return "depth(" + strconv.Itoa(int(d)) + ")"
	}
}
