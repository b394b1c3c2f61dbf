package usecase

import (
	"errors"
	"fmt"
)

var ErrUnsupportedProvider = errors.New("unsupported payment provider")

// PaymentService is the single seam callers go through to reach a gateway.
// Call sites never import a concrete provider type; adding a provider is one
// registration here and zero changes elsewhere.
type PaymentService struct {
	providers map[string]PaymentProvider
	def       string
}

// NewPaymentService registers providers by Name(). The first one registered
// becomes the default used when a caller leaves the provider name empty
// (the gateway redirect may strip the provider query parameter).
func NewPaymentService(providers ...PaymentProvider) *PaymentService {
	s := &PaymentService{providers: make(map[string]PaymentProvider, len(providers))}
	for _, p := range providers {
		if s.def == "" {
			s.def = p.Name()
		}
		s.providers[p.Name()] = p
	}
	return s
}

func (s *PaymentService) Provider(name string) (PaymentProvider, error) {
	if name == "" {
		name = s.def
	}
	p, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
	return p, nil
}
