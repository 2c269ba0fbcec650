package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingFee(t *testing.T) {
	cases := []struct {
		region string
		want   int64
	}{
		{"", ShippingFeeNone},
		{"16 - Alger", ShippingFeeCapital},
		{"01 - Adrar", ShippingFeeRemote},
		{"57 - El M’Ghair", ShippingFeeRemote},
		{"47 - Ghardaïa", ShippingFeeRemote},
		{"31 - Oran", ShippingFeeDefault},
		{"unknown region", ShippingFeeDefault},
		{"16 - alger", ShippingFeeDefault},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ShippingFee(tc.region), tc.region)
	}
}

func TestRemoteRegions_AllShipAtRemoteTier(t *testing.T) {
	regions := RemoteRegions()
	assert.Len(t, regions, 15)
	for _, region := range regions {
		assert.Equal(t, ShippingFeeRemote, ShippingFee(region), region)
	}
}
