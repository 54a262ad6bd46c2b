package mocks

//go:generate mockgen -destination=./mock_store.go -package=mocks github.com/rxtech-lab/argo-screener/internal/store Store
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-screener/pkg/marketdata/provider Provider
