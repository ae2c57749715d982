package rc_test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pavanmanishd/rc"
)

type Conn struct {
	addr string
}

func (c *Conn) Close() error {
	fmt.Printf("closing %s\n", c.addr)
	return nil
}

// Example demonstrates basic shared ownership
func Example() {
	a := rc.New(&Conn{addr: "db:5432"})
	fmt.Printf("owners: %d\n", a.UseCount())

	b := a.Clone()
	fmt.Printf("owners after Clone: %d\n", a.UseCount())

	c := b.Move()
	fmt.Printf("owners after Move: %d, moved-from valid: %t\n", c.UseCount(), b.Valid())

	c.Reset()
	fmt.Printf("owners after Reset: %d\n", a.UseCount())

	// The last owner closes the connection
	a.Reset()

	// Output:
	// owners: 1
	// owners after Clone: 2
	// owners after Move: 2, moved-from valid: false
	// owners after Reset: 1
	// closing db:5432
}

// ExampleWeak demonstrates observing an object without keeping it alive
func ExampleWeak() {
	s := rc.New(&Conn{addr: "cache:6379"})
	w := s.Weak()
	defer w.Reset()

	if l := w.Lock(); l.Valid() {
		fmt.Printf("locked %s, owners: %d\n", l.Get().addr, l.UseCount())
		l.Reset()
	}

	s.Reset()
	fmt.Printf("expired: %t\n", w.Expired())

	_, err := rc.FromWeak(w)
	fmt.Println(errors.Is(err, rc.ErrExpired))

	// Output:
	// locked cache:6379, owners: 2
	// closing cache:6379
	// expired: true
	// true
}

// ExampleNewWithDeleter demonstrates a custom destroy policy
func ExampleNewWithDeleter() {
	pool := sync.Pool{New: func() any { return new([64]byte) }}

	buf := pool.Get().(*[64]byte)
	s := rc.NewWithDeleter(buf, rc.DeleterFunc[[64]byte](func(p *[64]byte) {
		*p = [64]byte{}
		pool.Put(p)
		fmt.Println("buffer returned to pool")
	}))

	readers := []*rc.Shared[[64]byte]{s.Clone(), s.Clone()}
	s.Reset()
	for i, r := range readers {
		fmt.Printf("reader %d done\n", i)
		r.Reset()
	}

	// Output:
	// reader 0 done
	// reader 1 done
	// buffer returned to pool
}

type Header struct {
	Name string
}

type Packet struct {
	Header  Header
	Payload []byte
}

// ExampleNewAlias demonstrates a handle to a field that keeps its parent alive
func ExampleNewAlias() {
	pkt := rc.NewWithDeleter(&Packet{Header: Header{Name: "syn"}},
		rc.DeleterFunc[Packet](func(p *Packet) { fmt.Printf("packet %s released\n", p.Header.Name) }))

	hdr := rc.NewAlias(pkt, &pkt.Get().Header)
	pkt.Reset()

	fmt.Printf("header %s still alive, owners: %d\n", hdr.Get().Name, hdr.UseCount())
	hdr.Reset()

	// Output:
	// header syn still alive, owners: 1
	// packet syn released
}

type Session struct {
	rc.SelfObserver[Session]
	ID int
}

// ExampleSelfObserver demonstrates an object handing out handles to itself
func ExampleSelfObserver() {
	sess := &Session{ID: 7}

	_, err := sess.SharedFromThis()
	fmt.Println(errors.Is(err, rc.ErrExpired))

	owner := rc.New(sess)
	self, _ := sess.SharedFromThis()
	fmt.Printf("session %d, owners: %d\n", self.Get().ID, owner.UseCount())

	self.Reset()
	owner.Reset()

	// Output:
	// true
	// session 7, owners: 2
}

// ExampleAllocate demonstrates combined allocation from an arena
func ExampleAllocate() {
	a := rc.NewSafeArena(1024, rc.WithLimit(4096))
	defer a.Release()

	s, err := rc.Allocate(a, func(v *[4]int64) error {
		v[0] = 42
		return nil
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("value: %d, live slots: %d\n", s.Get()[0], a.Live())

	w := s.Weak()
	s.Reset()
	fmt.Printf("after Reset, live slots: %d\n", a.Live())
	w.Reset()
	fmt.Printf("after weak Reset, live slots: %d\n", a.Live())

	// Output:
	// value: 42, live slots: 1
	// after Reset, live slots: 1
	// after weak Reset, live slots: 0
}

// ExampleNewWithAllocator demonstrates rollback when bookkeeping cannot be allocated
func ExampleNewWithAllocator() {
	full := rc.NewArena(64, rc.WithLimit(1))

	_, err := rc.NewWithAllocator(&Conn{addr: "replica"}, rc.DefaultDelete[Conn]{}, full)
	fmt.Println(errors.Is(err, rc.ErrAllocationFailure))

	// Output:
	// closing replica
	// true
}

// ExampleUnique demonstrates handing sole ownership over to shared owners
func ExampleUnique() {
	u := rc.NewUnique(&Conn{addr: "primary"})
	u.Reset(&Conn{addr: "standby"})

	s := rc.FromUnique(u)
	fmt.Printf("unique valid: %t, owners: %d\n", u.Valid(), s.UseCount())
	s.Reset()

	// Output:
	// closing primary
	// unique valid: false, owners: 1
	// closing standby
}

// ExampleArena_Reset demonstrates arena reuse with Reset
func ExampleArena_Reset() {
	a := rc.NewArena(1024)
	defer a.Release()

	for round := 1; round <= 3; round++ {
		// Allocate memory for this round
		for i := 0; i < 5; i++ {
			rc.Alloc[int64](a)
		}

		fmt.Printf("Round %d - Memory in use: %d bytes\n", round, a.SizeInUse())

		// Reset arena for next round
		a.Reset()
	}

	// Output:
	// Round 1 - Memory in use: 40 bytes
	// Round 2 - Memory in use: 40 bytes
	// Round 3 - Memory in use: 40 bytes
}

// ExampleArenaMetrics demonstrates monitoring arena performance
func ExampleArenaMetrics() {
	a := rc.NewArena(1024)
	defer a.Release()

	rc.Alloc[int64](a)
	rc.Alloc[[4]int64](a)
	rc.Alloc[int64](a)

	metrics := a.Metrics()
	fmt.Printf("Metrics:\n")
	fmt.Printf("  Size in use: %d bytes\n", metrics.SizeInUse)
	fmt.Printf("  Capacity: %d bytes\n", metrics.Capacity)
	fmt.Printf("  Chunks: %d\n", metrics.NumChunks)
	fmt.Printf("  Live: %d\n", metrics.Live)
	fmt.Printf("  Utilization: %.1f%%\n", metrics.Utilization*100)

	// Output:
	// Metrics:
	//   Size in use: 48 bytes
	//   Capacity: 2048 bytes
	//   Chunks: 2
	//   Live: 3
	//   Utilization: 2.3%
}
