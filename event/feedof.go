// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package event

import (
	"context"
	"reflect"
	"sync"
)

// firstSubSendCaseOf is the index of the first actual subscriber case in a
// FeedOf's sendCases. Case 0 watches removeSub; case 1 watches the Done
// channel of whatever context SendWithCtx was last called with (inert, a
// nil channel, for plain Send).
const firstSubSendCaseOf = 2

// FeedOf implements one-to-many subscriptions where the carrier of events is
// a channel of a fixed, compile-time type T. It behaves like Feed, but skips
// the reflect-based type checking Feed needs for arbitrary channel types,
// and additionally supports SendWithCtx for bounding how long a broadcast
// waits on a slow subscriber.
type FeedOf[T any] struct {
	once      sync.Once
	sendLock  chan struct{}
	removeSub chan chan T
	sendCases caseListOf[T]

	mu    sync.Mutex
	inbox caseListOf[T]
}

type caseOf[T any] struct {
	channel chan T
	typ     reflect.SelectCase
}

type caseListOf[T any] []caseOf[T]

func (f *FeedOf[T]) init() {
	f.removeSub = make(chan chan T)
	f.sendLock = make(chan struct{}, 1)
	f.sendLock <- struct{}{}
	f.sendCases = caseListOf[T]{
		{typ: reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(f.removeSub)}},
		{typ: reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf((<-chan struct{})(nil))}},
	}
}

// Subscribe adds a channel to the feed. Future sends will be delivered on
// the channel until the subscription is canceled.
func (f *FeedOf[T]) Subscribe(channel chan T) Subscription {
	f.once.Do(f.init)
	sub := &feedOfSub[T]{feed: f, channel: channel, err: make(chan error, 1)}

	f.mu.Lock()
	defer f.mu.Unlock()
	cas := caseOf[T]{channel: channel, typ: reflect.SelectCase{Dir: reflect.SelectSend, Chan: reflect.ValueOf(channel)}}
	f.inbox = append(f.inbox, cas)
	return sub
}

func (f *FeedOf[T]) remove(sub *feedOfSub[T]) {
	f.mu.Lock()
	if index := f.inbox.find(sub.channel); index != -1 {
		f.inbox = f.inbox.delete(index)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	select {
	case f.removeSub <- sub.channel:
	case <-f.sendLock:
		if index := f.sendCases.find(sub.channel); index != -1 {
			f.sendCases = f.sendCases.delete(index)
		}
		f.sendLock <- struct{}{}
	}
}

// Send delivers to all subscribed channels simultaneously, waiting
// indefinitely for slow subscribers. It returns the number of subscribers
// the value was sent to.
func (f *FeedOf[T]) Send(value T) (nsent int) {
	nsent, _ = f.sendWithCtx(context.Background(), false, value)
	return nsent
}

// SendWithCtx behaves like Send, but stops waiting on subscribers once ctx
// is done. With drop set, any subscriber not yet delivered to by then has
// its channel closed and is removed from the feed, and is counted in
// ndropped; without drop, SendWithCtx keeps delivering to the remainder as
// if ctx had never fired.
func (f *FeedOf[T]) SendWithCtx(ctx context.Context, drop bool, value T) (nsent, ndropped int) {
	return f.sendWithCtx(ctx, drop, value)
}

func (f *FeedOf[T]) sendWithCtx(ctx context.Context, drop bool, value T) (nsent, ndropped int) {
	f.once.Do(f.init)
	<-f.sendLock

	f.mu.Lock()
	f.sendCases = append(f.sendCases, f.inbox...)
	f.inbox = nil
	f.mu.Unlock()

	rvalue := reflect.ValueOf(value)
	for i := firstSubSendCaseOf; i < len(f.sendCases); i++ {
		f.sendCases[i].typ.Send = rvalue
	}
	f.sendCases[1].typ.Chan = reflect.ValueOf(ctx.Done())

	cases := f.sendCases
sendLoop:
	for {
		for i := firstSubSendCaseOf; i < len(cases); i++ {
			if cases[i].typ.Chan.TrySend(rvalue) {
				nsent++
				cases = cases.deactivate(i)
				i--
			}
		}
		if len(cases) == firstSubSendCaseOf {
			break
		}

		chosen, recv, _ := reflect.Select(toSelectCases(cases))
		switch {
		case chosen == 0:
			ch := recv.Interface().(chan T)
			if index := f.sendCases.find(ch); index != -1 {
				f.sendCases = f.sendCases.delete(index)
				if index < len(cases) {
					cases = f.sendCases[:len(cases)-1]
				}
			}
		case chosen == 1 && drop:
			// cases shares its backing array with f.sendCases, so collect the
			// pending channels before deleting any of them.
			pending := make([]chan T, 0, len(cases)-firstSubSendCaseOf)
			for i := firstSubSendCaseOf; i < len(cases); i++ {
				pending = append(pending, cases[i].channel)
			}
			for _, ch := range pending {
				close(ch)
				if index := f.sendCases.find(ch); index != -1 {
					f.sendCases = f.sendCases.delete(index)
				}
				ndropped++
			}
			cases = nil
			break sendLoop
		case chosen == 1:
			// ctx is done but drop wasn't requested: keep waiting for the
			// remaining subscribers as if nothing happened.
		default:
			cases = cases.deactivate(chosen)
			nsent++
		}
	}

	for i := firstSubSendCaseOf; i < len(f.sendCases); i++ {
		f.sendCases[i].typ.Send = reflect.Value{}
	}
	f.sendCases[1].typ.Chan = reflect.ValueOf((<-chan struct{})(nil))
	f.sendLock <- struct{}{}
	return nsent, ndropped
}

func toSelectCases[T any](cs caseListOf[T]) []reflect.SelectCase {
	out := make([]reflect.SelectCase, len(cs))
	for i, c := range cs {
		out[i] = c.typ
	}
	return out
}

type feedOfSub[T any] struct {
	feed    *FeedOf[T]
	channel chan T
	errOnce sync.Once
	err     chan error
}

func (sub *feedOfSub[T]) Unsubscribe() {
	sub.errOnce.Do(func() {
		sub.feed.remove(sub)
		close(sub.err)
	})
}

func (sub *feedOfSub[T]) Err() <-chan error {
	return sub.err
}

func (cs caseListOf[T]) find(channel chan T) int {
	for i, cas := range cs {
		if cas.channel == channel {
			return i
		}
	}
	return -1
}

func (cs caseListOf[T]) delete(index int) caseListOf[T] {
	return append(cs[:index], cs[index+1:]...)
}

func (cs caseListOf[T]) deactivate(index int) caseListOf[T] {
	last := len(cs) - 1
	cs[index], cs[last] = cs[last], cs[index]
	return cs[:last]
}
