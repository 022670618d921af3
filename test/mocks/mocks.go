// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `go generate ./test/mocks`.
package mocks

//go:generate mockgen -source=../../internal/core/ports/repositories.go -destination=repositories_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/store.go -destination=store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/blob.go -destination=blob_mock.go -package=mocks
