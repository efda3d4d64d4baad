package compositor

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"go2tv.app/displaycap/internal/bufstream"
)

// framePump drains an output's Frame signals and deposits their
// payloads into the bound buffer stream. Each signal carries a sealed
// memfd plus geometry: (fd, width, height, stride, format, size).
// The pump goroutine is the stream's producer side and must never
// block on the consumer.
type framePump struct {
	output   *output
	producer *bufstream.Producer
	signals  chan *dbus.Signal

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newFramePump(o *output, producer *bufstream.Producer, signals chan *dbus.Signal) *framePump {
	p := &framePump{
		output:   o,
		producer: producer,
		signals:  signals,
		done:     make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *framePump) stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *framePump) loop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		case sig, ok := <-p.signals:
			if !ok {
				return
			}
			if sig.Name == outputInterface+"."+frameMember && sig.Path == p.output.path {
				p.deliver(sig)
			}
		}
	}
}

func (p *framePump) deliver(sig *dbus.Signal) {
	if len(sig.Body) != 6 {
		debugf("frame signal with %d fields dropped", len(sig.Body))
		return
	}

	fd, ok0 := sig.Body[0].(dbus.UnixFD)
	width, ok1 := sig.Body[1].(uint32)
	height, ok2 := sig.Body[2].(uint32)
	stride, ok3 := sig.Body[3].(uint32)
	format, ok4 := sig.Body[4].(int32)
	size, ok5 := sig.Body[5].(uint32)
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5) {
		debugf("malformed frame signal dropped")
		return
	}

	data, err := mapFrame(int(fd), int(size))
	if err != nil {
		debugf("unable to map frame payload: %v", err)
		return
	}
	defer unmapFrame(data)

	buf, st := p.producer.Dequeue()
	if st != bufstream.OK {
		debugf("frame dropped: %s", st.Name())
		return
	}
	copyRows(buf, data, width, height, stride, bufstream.Format(format))

	if st := p.producer.Queue(buf); st != bufstream.OK {
		debugf("unable to queue frame: %s", st.Name())
	}
}

// copyRows copies a frame payload into a stream buffer row by row,
// honoring both sides' strides. Payload geometry wins where it is
// smaller than the buffer's.
func copyRows(buf *bufstream.Buffer, src []byte, width, height, stride uint32, format bufstream.Format) {
	bpp := bufstream.BytesPerPixel(format)
	if bpp == 0 {
		bpp = bufstream.BytesPerPixel(buf.Format)
	}
	if bpp == 0 {
		return
	}

	rows := min(height, buf.Height)
	cols := min(width, buf.Width)
	srcRow := int(stride) * int(bpp)
	dstRow := int(buf.Stride) * int(bpp)
	rowBytes := int(cols) * int(bpp)

	for y := 0; y < int(rows); y++ {
		srcOff := y * srcRow
		dstOff := y * dstRow
		if srcOff+rowBytes > len(src) || dstOff+rowBytes > len(buf.Data) {
			break
		}
		copy(buf.Data[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
	}
}
