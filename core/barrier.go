package core

// Barrier synchronizes Flush with the shard goroutines. Each shard
// notifies once per flush sentinel it consumes; the flushing caller
// waits for one notification per shard.
type Barrier struct {
	notifications chan bool
}

func NewBarrier(capacity int) *Barrier {
	return &Barrier{
		notifications: make(chan bool, capacity),
	}
}

func (b *Barrier) Notify() {
	b.notifications <- true
}

func (b *Barrier) Wait(count int) {
	for i := 0; i < count; i++ {
		<-b.notifications
	}
}
