package ipfs

// AddedFile is one entry in the result of Add: the daemon's per-file
// progress/result lines reduced to a single record.
type AddedFile struct {
	Path string
	Hash string
	Size int64
}

// KeyInfo describes one IPNS key known to the daemon.
type KeyInfo struct {
	Name string
	ID   string
}
