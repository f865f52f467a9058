package dto

type SyncKlarnaOrdersCommand struct {
	AfterOrderID string
	BatchSize    int
}

type SyncKlarnaOrdersOutput struct {
	Scanned     int
	InSync      int
	OutOfSync   int
	Skipped     int
	Errors      int
	NextOrderID string
}
