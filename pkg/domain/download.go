package domain

type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonInvalidLink
	ReasonPrivateOrUnavailable
	ReasonOverSize
	ReasonExtractorError
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInvalidLink:
		return "invalid_link"
	case ReasonPrivateOrUnavailable:
		return "private_or_unavailable"
	case ReasonOverSize:
		return "over_size"
	default:
		return "extractor_error"
	}
}

// DownloadResult is the outcome of one extraction attempt. Cleanup removes
// the temp directory backing FilePath and is never nil; the caller must
// invoke it once the reply has been sent, on success and failure alike.
type DownloadResult struct {
	FilePath  string
	SizeBytes int64
	Reason    FailureReason
	Cleanup   func()
}

func (r DownloadResult) OK() bool { return r.Reason == ReasonNone }
