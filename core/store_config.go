package core

type StoreConfig struct {
	EachBufferSize int64
	NumBuffer      int64
	NumShards      int64
	CacheEnabled   bool
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		EachBufferSize: 256,
		NumBuffer:      4,
		NumShards:      2,
		CacheEnabled:   true,
	}
}

// UnbufferedStoreConfig disables batching: appends fold synchronously
// and no shard goroutines are needed.
func UnbufferedStoreConfig() *StoreConfig {
	return &StoreConfig{
		EachBufferSize: 0,
		NumBuffer:      0,
		NumShards:      1,
		CacheEnabled:   true,
	}
}
