// Package mocks provides generated mock implementations of the auth ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port
// interfaces. To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	ex := mocks.NewMockSessionExchanger(ctrl)
//	ex.EXPECT().Exchange(gomock.Any(), "token").Return(result, nil).Times(1)
package mocks

// Generate mock for SessionExchanger interface from internal/ports package.
// This creates MockSessionExchanger with methods: Exchange, Revoke
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_exchanger_mock.go github.com/aquaflow/aquaflow-ui/internal/ports SessionExchanger

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/aquaflow/aquaflow-ui/internal/ports SessionStore
