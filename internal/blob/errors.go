package blob

import "errors"

// ErrPutFailed is returned by the in-memory store when configured to fail
// writes; the MinIO store returns wrapped driver errors instead.
var ErrPutFailed = errors.New("blob put failed")
