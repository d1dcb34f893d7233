package domain

// The two free-tier shapes this engine provisions. The ARM shape is
// flexible and needs an explicit OCPU/memory configuration; the micro
// shape is fixed.
const (
	ShapeARMFlex = "VM.Standard.A1.Flex"
	ShapeE2Micro = "VM.Standard.E2.1.Micro"
)

// SupportedShape reports whether shape is one of the two shapes the
// engine accepts.
func SupportedShape(shape string) bool {
	return shape == ShapeARMFlex || shape == ShapeE2Micro
}
