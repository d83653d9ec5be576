package handler

import (
	"testing"

	"backoffice-agent/internal/usecase"
)

func TestGatewayStatus(t *testing.T) {
	cases := []struct {
		cl   usecase.Classification
		want int
	}{
		{usecase.Classification{Class: usecase.ClassAuth, Status: 401}, 401},
		{usecase.Classification{Class: usecase.ClassMalformedCredential}, 401},
		{usecase.Classification{Class: usecase.ClassClient, Status: 404}, 404},
		{usecase.Classification{Class: usecase.ClassClient, Status: 422}, 422},
		{usecase.Classification{Class: usecase.ClassClient}, 400},
		{usecase.Classification{Class: usecase.ClassNetwork}, 502},
		{usecase.Classification{Class: usecase.ClassServer, Status: 503}, 502},
		{usecase.Classification{Class: usecase.ClassUnknown}, 500},
	}
	for _, tc := range cases {
		if got := gatewayStatus(tc.cl); got != tc.want {
			t.Errorf("gatewayStatus(%+v) = %d, want %d", tc.cl, got, tc.want)
		}
	}
}
