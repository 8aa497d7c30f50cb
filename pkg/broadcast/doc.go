// Package broadcast provides type-safe fan-out of messages to multiple
// subscribers.
//
// The dashboard core broadcasts collection-change events and toast events so
// presentation collaborators (SSE streams, other tabs, other instances) can
// react without holding their own copy of the state. Two implementations are
// provided:
//
//   - MemoryBroadcaster: in-process, non-blocking, drops messages for slow
//     consumers instead of stalling the publisher.
//   - RedisBroadcaster: Redis pub/sub backed, for dashboards running more
//     than one instance behind a load balancer.
//
// # Usage
//
//	b := broadcast.NewMemoryBroadcaster[string](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	go func() {
//		for msg := range sub.Receive(ctx) {
//			fmt.Println(msg.Data)
//		}
//	}()
//
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "unread_count_changed"})
package broadcast
