package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/payment --output domain/payment --outpkg paymentmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/survivor --output domain/survivor --outpkg survivormock --filename repository_mock.go
