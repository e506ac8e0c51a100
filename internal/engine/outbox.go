package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Rishusingh18/industrie24/internal/domain"
	"github.com/Rishusingh18/industrie24/internal/remote"
)

type opKind int

const (
	opUpsertCartLine opKind = iota + 1
	opDeleteCartLine
	opClearCart
	opUpsertWishlistEntry
	opDeleteWishlistEntry
)

// remoteOp is one queued write. Cart quantity ops carry the full line with
// its absolute quantity so a stale op landing late is merely redundant,
// never wrong by a delta.
type remoteOp struct {
	id        string
	kind      opKind
	userID    string
	productID int64
	line      domain.CartLine
	entry     domain.WishlistEntry
}

func (op remoteOp) describe() string {
	switch op.kind {
	case opUpsertCartLine:
		return fmt.Sprintf("cart upsert product=%d qty=%d", op.line.ProductID, op.line.Quantity)
	case opDeleteCartLine:
		return fmt.Sprintf("cart delete product=%d", op.productID)
	case opClearCart:
		return "cart clear"
	case opUpsertWishlistEntry:
		return fmt.Sprintf("wishlist upsert product=%d", op.entry.ProductID)
	case opDeleteWishlistEntry:
		return fmt.Sprintf("wishlist delete product=%d", op.productID)
	}
	return "unknown op"
}

// outbox delivers queued writes to the remote store on a single worker with
// exponential backoff. One worker per engine keeps a session's own writes in
// mutation order; writes from other devices still interleave at the store.
type outbox struct {
	store      remote.Store
	logger     *log.Logger
	notifier   Notifier
	ops        chan remoteOp
	done       chan struct{}
	retryLimit int
	baseDelay  time.Duration
	opTimeout  time.Duration

	mu     sync.Mutex
	closed bool
}

func newOutbox(store remote.Store, logger *log.Logger, notifier Notifier, retryLimit, queueSize int, baseDelay time.Duration) *outbox {
	if retryLimit <= 0 {
		retryLimit = 5
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if baseDelay <= 0 {
		baseDelay = 250 * time.Millisecond
	}
	o := &outbox{
		store:      store,
		logger:     logger,
		notifier:   notifier,
		ops:        make(chan remoteOp, queueSize),
		done:       make(chan struct{}),
		retryLimit: retryLimit,
		baseDelay:  baseDelay,
		opTimeout:  10 * time.Second,
	}
	go o.run()
	return o
}

// enqueue never blocks a mutation. A full queue drops the op and surfaces a
// persistent notice instead of stalling the caller. An already-closed outbox
// drops the op with a log line; a request that raced session eviction holds
// an engine whose worker is gone.
func (o *outbox) enqueue(op remoteOp) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		o.logger.Printf("outbox: closed, dropping %s", op.describe())
		return
	}
	select {
	case o.ops <- op:
	default:
		o.logger.Printf("outbox: queue full, dropping %s", op.describe())
		o.notifier.Notify(newNotice(LevelError, "a change could not be saved to your account"))
	}
}

// close stops accepting ops and waits for queued ones to drain.
func (o *outbox) close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.ops)
	}
	o.mu.Unlock()
	<-o.done
}

func (o *outbox) run() {
	defer close(o.done)
	for op := range o.ops {
		o.dispatch(op)
	}
}

func (o *outbox) dispatch(op remoteOp) {
	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), o.opTimeout)
		err := o.apply(ctx, op)
		cancel()
		if err == nil {
			return
		}
		if attempt == 0 && o.retryLimit > 1 {
			o.notifier.Notify(newNotice(LevelWarning, "saving a change to your account is taking longer than usual"))
		}
		if attempt+1 >= o.retryLimit {
			o.logger.Printf("outbox: giving up on %s after %d attempts: %v", op.describe(), attempt+1, err)
			o.notifier.Notify(newNotice(LevelError, "a change could not be saved to your account"))
			return
		}
		o.logger.Printf("outbox: %s failed (attempt %d): %v", op.describe(), attempt+1, err)
		time.Sleep(o.baseDelay << attempt)
	}
}

func (o *outbox) apply(ctx context.Context, op remoteOp) error {
	switch op.kind {
	case opUpsertCartLine:
		return o.store.UpsertCartLine(ctx, op.userID, op.line)
	case opDeleteCartLine:
		return o.store.DeleteCartLine(ctx, op.userID, op.productID)
	case opClearCart:
		return o.store.ClearCart(ctx, op.userID)
	case opUpsertWishlistEntry:
		return o.store.UpsertWishlistEntry(ctx, op.userID, op.entry)
	case opDeleteWishlistEntry:
		return o.store.DeleteWishlistEntry(ctx, op.userID, op.productID)
	}
	return fmt.Errorf("unknown op kind %d", op.kind)
}
