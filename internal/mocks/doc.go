// Package mocks holds gomock doubles for the pipeline's collaborators.
package mocks

//go:generate mockgen -destination=mock_notifier.go -package=mocks internwatch/internal/notify Notifier
//go:generate mockgen -destination=mock_fetcher.go -package=mocks internwatch/internal/scrape/types Fetcher
//go:generate mockgen -destination=mock_seen_store.go -package=mocks internwatch/internal/store SeenStore
//go:generate mockgen -source=../notify/kafka.go -destination=mock_message_writer.go -package=mocks -mock_names=messageWriter=MockMessageWriter
