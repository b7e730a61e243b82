package utils

const (
	// RoundTol is single precision machine epsilon, the rounding tolerance
	// used for every real to integer reconciliation
	RoundTol = 1.1920929e-7
	// MaxDenDefault bounds denominators of rational approximations of
	// matrices
	MaxDenDefault = 1000000
	// MaxDenDirection bounds per-coordinate denominators when approximating
	// real directions
	MaxDenDirection = 1000
	MinDimension    = 2
	MaxDimension    = 5
)

func CheckDimension(d int) bool {
	return d >= MinDimension && d <= MaxDimension
}
