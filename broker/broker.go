package broker

import (
	"sync"

	"code.ospreymarkets.io/osprey/events"
	"code.ospreymarkets.io/osprey/logging"
)

// Subscriber receives events pushed through the broker. Types lists the
// event types it wants; an empty list subscribes it to everything.
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
	SetID(id int)
	ID() int
}

type subscription struct {
	Subscriber
}

// Broker fans events out to subscribers by type. Delivery is synchronous
// and in-process: the matching core publishes from inside a book's critical
// section and relies on every event reaching every subscriber, in order.
type Broker struct {
	log *logging.Logger
	mu  sync.Mutex

	tSubs map[events.Type]map[int]*subscription
	// these fields ensure a unique ID for all subscribers, regardless of
	// what event types they subscribe to
	subs map[int]subscription
	keys []int
}

// New creates a new base broker
func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Broker{
		log:   log,
		tSubs: map[events.Type]map[int]*subscription{},
		subs:  map[int]subscription{},
		keys:  []int{},
	}
}

// Send delivers an event to every subscriber registered for its type.
func (b *Broker) Send(event events.Event) {
	b.mu.Lock()
	subs := b.getSubsByType(event.Type())
	b.mu.Unlock()
	for _, sub := range subs {
		sub.Push(event)
	}
}

// we add the entire ALL map to type-specific maps, so if a typed map isn't
// set (yet) we can return ALL subscribers directly instead
func (b *Broker) getSubsByType(t events.Type) []*subscription {
	subs, ok := b.tSubs[t]
	if !ok {
		subs = b.tSubs[events.All]
	}
	cpy := make([]*subscription, 0, len(subs))
	for _, v := range subs {
		cpy = append(cpy, v)
	}
	return cpy
}

// Subscribe registers a new subscriber, returning the key
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	k := b.subscribe(s)
	s.SetID(k)
	b.mu.Unlock()
	return k
}

func (b *Broker) SubscribeBatch(subs ...Subscriber) {
	b.mu.Lock()
	for _, s := range subs {
		k := b.subscribe(s)
		s.SetID(k)
	}
	b.mu.Unlock()
}

func (b *Broker) subscribe(s Subscriber) int {
	k := b.getKey()
	sub := subscription{
		Subscriber: s,
	}
	b.subs[k] = sub
	types := sub.Types()
	// a subscriber with no types, or one that lists All, gets everything
	isAll := false
	if len(types) == 0 {
		isAll = true
		types = []events.Type{events.All}
	} else {
		for _, t := range types {
			if t == events.All {
				types = []events.Type{events.All}
				isAll = true
				break
			}
		}
	}
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]*subscription{}
			if !isAll {
				// seed the new typed map with the current ALL subscribers
				for ak, as := range b.tSubs[events.All] {
					b.tSubs[t][ak] = as
				}
			}
		}
		b.tSubs[t][k] = &sub
	}
	if isAll {
		for t := range b.tSubs {
			if t != events.All {
				b.tSubs[t][k] = &sub
			}
		}
	}
	return k
}

// Unsubscribe removes subscriber from broker
// this does not change the state of the subscriber
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	b.rmSubs(k)
	b.mu.Unlock()
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:] // pop first element
		return k
	}
	return len(b.subs) + 1 // add 1 to avoid zero value
}

func (b *Broker) rmSubs(keys ...int) {
	for _, k := range keys {
		// if the sub doesn't exist, this could be a duplicate call
		// we do not want the keys slice to contain duplicate values
		// and so we have to check this first
		s, ok := b.subs[k]
		if !ok {
			return
		}
		types := s.Types()
		for _, t := range types {
			if t == events.All {
				types = nil
				break
			}
		}
		if len(types) == 0 {
			// remove in all subscribers then
			for _, v := range b.tSubs {
				delete(v, k)
			}
		} else {
			for _, t := range types {
				delete(b.tSubs[t], k) // remove key from typed subs map
			}
		}
		delete(b.subs, k)
		b.keys = append(b.keys, k)
	}
}
