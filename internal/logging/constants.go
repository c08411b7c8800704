package logging

// Standardized field names for structured logging.
const (
	FieldFile          = "file_path"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldTransactionID = "transaction_id"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldConfidence    = "confidence"
	FieldSource        = "source"
	FieldBatch         = "batch"
	FieldBatchSize     = "batch_size"
	FieldProvider      = "provider"
	FieldModel         = "model"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldDelimiter     = "delimiter"
	FieldZScore        = "z_score"
	FieldKeyword       = "keyword"
	FieldUnresolved    = "unresolved"
	FieldFirstID       = "first_id"
)
