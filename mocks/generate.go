package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_table_writer.go -package=mocks github.com/rxtech-lab/argo-tickerdata/pkg/marketdata/writer TableWriter
