package domain

// CapitalRegion is the wilaya label that ships at the lowest tier.
const CapitalRegion = "16 - Alger"

// Flat shipping tiers.
const (
	ShippingFeeNone    int64 = 0
	ShippingFeeCapital int64 = 400
	ShippingFeeDefault int64 = 600
	ShippingFeeRemote  int64 = 900
)

var remoteRegions = newRegionSet(
	"01 - Adrar", "11 - Tamanrasset", "33 - Illizi", "37 - Tindouf", "49 - Timimoun",
	"50 - Bordj Badji Mokhtar", "53 - In Salah", "54 - In Guezzam", "56 - Djanet",
	"30 - Ouargla", "55 - Touggourt", "57 - El M’Ghair", "58 - El Menia", "47 - Ghardaïa", "32 - El Bayadh",
)

func newRegionSet(regions ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(regions))
	for _, region := range regions {
		set[region] = struct{}{}
	}
	return set
}

// ShippingFee maps a region label to its flat fee. Unknown labels fall back to
// the default tier and an empty label ships free.
func ShippingFee(region string) int64 {
	if region == "" {
		return ShippingFeeNone
	}
	if region == CapitalRegion {
		return ShippingFeeCapital
	}
	if IsRemoteRegion(region) {
		return ShippingFeeRemote
	}
	return ShippingFeeDefault
}

// IsRemoteRegion reports whether region belongs to the southern/remote tier.
func IsRemoteRegion(region string) bool {
	_, ok := remoteRegions[region]
	return ok
}

// RemoteRegions lists the remote tier labels.
func RemoteRegions() []string {
	regions := make([]string, 0, len(remoteRegions))
	for region := range remoteRegions {
		regions = append(regions, region)
	}
	return regions
}
