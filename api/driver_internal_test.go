package api

import (
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/program"
)

var _ = Describe("Driver", func() {
	var (
		mockCtrl   *gomock.Controller
		mockDevice *MockDevice
		driver     *driverImpl
	)

	geometry := fabric.Geometry{Width: 4, Height: 4, NumBanks: 4}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		mockDevice = NewMockDevice(mockCtrl)

		driver = &driverImpl{
			device: mockDevice,
			tiles:  make(map[fabric.Coordinate]tileStatus),
		}
		driver.TickingComponent =
			sim.NewTickingComponent("Driver", nil, 1, driver)
		driver.port = sim.NewPort(driver, 4, 4, "Driver.Host")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reject loading onto the I/O row without sending", func() {
		mockDevice.EXPECT().Geometry().Return(geometry)

		region := fabric.Region{
			Origin: fabric.Coordinate{X: 0, Y: 0},
			Width:  2, Height: 2,
		}

		err := driver.LoadGroup(&program.Image{}, region)

		Expect(err).To(MatchError(fabric.ErrInvalidTarget))
	})

	It("should reject a region outside the mesh", func() {
		mockDevice.EXPECT().Geometry().Return(geometry)

		region := fabric.Region{
			Origin: fabric.Coordinate{X: 3, Y: 3},
			Width:  2, Height: 2,
		}

		err := driver.LoadGroup(&program.Image{}, region)

		Expect(err).To(MatchError(fabric.ErrInvalidTarget))
	})

	It("should reject an empty region", func() {
		region := fabric.Region{Origin: fabric.Coordinate{X: 1, Y: 1}}

		err := driver.RunGroup(region)

		Expect(err).To(MatchError(fabric.ErrInvalidTarget))
	})

	It("should not run a group that is not loaded", func() {
		mockDevice.EXPECT().Geometry().Return(geometry)

		region := fabric.Region{
			Origin: fabric.Coordinate{X: 1, Y: 1},
			Width:  1, Height: 1,
		}

		err := driver.RunGroup(region)

		Expect(err).To(MatchError(fabric.ErrTileState))
	})

	It("should not wait on a group that is not running", func() {
		mockDevice.EXPECT().Geometry().Return(geometry)

		region := fabric.Region{
			Origin: fabric.Coordinate{X: 1, Y: 1},
			Width:  1, Height: 1,
		}
		driver.tiles[fabric.Coordinate{X: 1, Y: 1}] = tileLoaded

		err := driver.WaitGroup(region, 0)

		Expect(err).To(MatchError(fabric.ErrTileState))
	})

	It("should reject an unaligned copy before classification", func() {
		err := driver.MemCopy(HostToDevice,
			fabric.Coordinate{X: 1, Y: 1}, 0x1000, make([]byte, 6))

		Expect(err).To(MatchError(fabric.ErrTransferFailed))
	})

	It("should reject a shared address beyond the last bank", func() {
		narrow := fabric.Geometry{Width: 4, Height: 4, NumBanks: 2}
		mockDevice.EXPECT().Geometry().Return(narrow)

		addr := fabric.SharedEva(3, 0)
		err := driver.MemCopy(HostToDevice,
			fabric.Coordinate{X: 1, Y: 1}, addr, make([]byte, 4))

		Expect(err).To(MatchError(fabric.ErrInvalidTarget))
	})

	It("should not read back from a running tile", func() {
		mockDevice.EXPECT().Geometry().Return(geometry)

		c := fabric.Coordinate{X: 1, Y: 1}
		driver.tiles[c] = tileRunning

		err := driver.MemCopy(DeviceToHost, c, 0x1000, make([]byte, 4))

		Expect(err).To(MatchError(fabric.ErrTileState))
	})

	It("should surface a missing symbol without touching the device", func() {
		image, err := program.NewBuilder("prog").
			WithLocalArray("g_data", 4).
			Build()
		Expect(err).ToNot(HaveOccurred())

		err = driver.SymbolCopy(HostToDevice,
			fabric.Coordinate{X: 1, Y: 1}, image, "g_missing",
			make([]byte, 4))

		Expect(err).To(MatchError(fabric.ErrSymbolNotFound))
	})

	It("should reject a copy that exceeds the symbol extent", func() {
		image, err := program.NewBuilder("prog").
			WithLocalArray("g_data", 4).
			Build()
		Expect(err).ToNot(HaveOccurred())

		err = driver.SymbolCopy(HostToDevice,
			fabric.Coordinate{X: 1, Y: 1}, image, "g_data",
			make([]byte, 20))

		Expect(err).To(MatchError(fabric.ErrTransferFailed))
	})

	It("should buffer tokens that arrive before a wait", func() {
		engine := NewMockEngine(mockCtrl)
		engine.EXPECT().CurrentTime().Return(sim.VTimeInSec(2e-6))
		driver.TickingComponent =
			sim.NewTickingComponent("Driver", engine, 1, driver)

		c := fabric.Coordinate{X: 2, Y: 1}

		driver.handleToken(c)

		Expect(driver.tokens).To(Equal([]pendingToken{{coord: c, at: 2e-6}}))
	})

	It("should judge a buffered token by its arrival time", func() {
		mockDevice.EXPECT().Geometry().Return(geometry)

		region := fabric.Region{
			Origin: fabric.Coordinate{X: 1, Y: 1},
			Width:  1, Height: 1,
		}
		c := region.Origin
		driver.tiles[c] = tileRunning

		// Arrived before the deadline, even though the wait itself is
		// issued after it.
		driver.tokens = []pendingToken{{coord: c, at: 5e-7}}

		err := driver.WaitGroup(region, 1e-6)

		Expect(err).ToNot(HaveOccurred())
		Expect(driver.tiles[c]).To(Equal(tileCompleted))
	})

	It("should time out when the engine drains with tiles missing", func() {
		engine := NewMockEngine(mockCtrl)
		engine.EXPECT().CurrentTime().Return(sim.VTimeInSec(0)).AnyTimes()
		engine.EXPECT().Schedule(gomock.Any()).AnyTimes()
		engine.EXPECT().Run().Return(nil)
		driver.TickingComponent =
			sim.NewTickingComponent("Driver", engine, 1, driver)
		driver.port = sim.NewPort(driver, 4, 4, "Driver.Host")

		mockDevice.EXPECT().Geometry().Return(geometry)

		region := fabric.Region{
			Origin: fabric.Coordinate{X: 1, Y: 1},
			Width:  2, Height: 1,
		}
		for _, c := range region.Coordinates() {
			driver.tiles[c] = tileRunning
		}

		err := driver.WaitGroup(region, 1e-6)

		Expect(err).To(MatchError(fabric.ErrCompletionTimeout))
	})
})

var _ = Describe("WaitState", func() {
	var w *waitState

	members := []fabric.Coordinate{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2},
	}

	BeforeEach(func() {
		w = &waitState{remaining: make(map[fabric.Coordinate]bool)}
		for _, c := range members {
			w.remaining[c] = true
		}
	})

	It("should absorb tokens in any order", func() {
		w.absorb(members[2], 0)
		w.absorb(members[0], 0)
		w.absorb(members[1], 0)

		Expect(w.err).ToNot(HaveOccurred())
		Expect(w.remaining).To(BeEmpty())
	})

	It("should flag a token from outside the group", func() {
		w.absorb(fabric.Coordinate{X: 3, Y: 3}, 0)

		Expect(w.err).To(MatchError(fabric.ErrUnexpectedToken))
	})

	It("should flag a duplicate token", func() {
		w.absorb(members[0], 0)
		w.absorb(members[0], 0)

		Expect(w.err).To(MatchError(fabric.ErrUnexpectedToken))
	})

	It("should not count a token past the deadline", func() {
		w.deadline = 1e-6

		w.absorb(members[0], 2e-6)

		Expect(w.err).ToNot(HaveOccurred())
		Expect(w.remaining).To(HaveKey(members[0]))
	})
})

var _ = Describe("Transaction", func() {
	It("should stage read data by request index", func() {
		x := newTransaction()
		x.staging = make([]uint32, 2)
		x.inflight[7] = reqInfo{kind: kindRead, index: 1}

		x.handleRsp(fabric.RspPacketBuilder{}.
			WithOp(fabric.OpReadData).
			WithLoadID(7).
			WithData(42).
			Build())

		Expect(x.err).ToNot(HaveOccurred())
		Expect(x.staging[1]).To(Equal(uint32(42)))
		Expect(x.done()).To(BeTrue())
	})

	It("should abort on the first nack", func() {
		c := fabric.Coordinate{X: 2, Y: 3}
		x := newTransaction()
		x.inflight[1] = reqInfo{
			kind: kindWrite, addr: 0x1010, coord: c,
		}
		x.pending = []sim.Msg{&fabric.ReqPacket{}}

		x.handleRsp(fabric.RspPacketBuilder{}.
			WithOp(fabric.OpNack).
			WithLoadID(1).
			Build())

		Expect(x.err).To(MatchError(fabric.ErrTransferFailed))
		var terr *fabric.TransferError
		Expect(x.err).To(BeAssignableToTypeOf(terr))
		Expect(x.pending).To(BeEmpty())
	})

	It("should ignore a response it never asked for", func() {
		x := newTransaction()

		x.handleRsp(fabric.RspPacketBuilder{}.
			WithOp(fabric.OpAck).
			WithLoadID(9).
			Build())

		Expect(x.err).ToNot(HaveOccurred())
	})
})
