package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentServiceSelection(t *testing.T) {
	iyzico := &fakeProvider{name: "iyzico"}
	svc := NewPaymentService(iyzico)

	p, err := svc.Provider("iyzico")
	require.NoError(t, err)
	assert.Same(t, iyzico, p.(*fakeProvider))

	// empty name falls back to the first registered provider
	p, err = svc.Provider("")
	require.NoError(t, err)
	assert.Same(t, iyzico, p.(*fakeProvider))

	_, err = svc.Provider("stripe")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
