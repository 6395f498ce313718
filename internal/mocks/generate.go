package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/matchup --output domain/matchup --outpkg matchupmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/pick --output domain/pick --outpkg pickmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name AnonymousRepository --dir ../domain/pick --output domain/pick --outpkg pickmock --filename anonymous_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/precedence --output domain/precedence --outpkg precedencemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/standings --output domain/standings --outpkg standingsmock --filename repository_mock.go
