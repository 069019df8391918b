package shipping

const (
	FallbackCourier = "flat"
	FallbackService = "REG"

	// Weight-tiered flat rate: base covers the first kilogram, every started
	// kilogram after that adds the increment.
	fallbackBaseCost  = int64(15000)
	fallbackPerKgCost = int64(7000)
)

// FallbackCost is the deterministic rate used when the provider is
// unreachable. Same weight in, same cost out.
func FallbackCost(weightGrams int) int64 {
	if weightGrams <= 0 {
		return fallbackBaseCost
	}
	extraKg := (weightGrams - 1) / 1000 // started kilograms beyond the first
	return fallbackBaseCost + int64(extraKg)*fallbackPerKgCost
}
