package displaycap

import (
	"fmt"
	"image"
	"sync"

	"go2tv.app/displaycap/internal/bufstream"
)

const outputName = "displaycap"

// virtualDisplay captures a display through a compositor-side virtual
// output bound to a producer/consumer buffer stream.
type virtualDisplay struct {
	displayID int32
	composer  Composer

	mu          sync.Mutex
	realInfo    DisplayInfo
	desiredInfo DisplayInfo

	producer *bufstream.Producer
	consumer *bufstream.Consumer
	reader   *bufstream.Reader
	waiter   *frameWaiter
	output   Output

	buf               bufstream.LockedBuffer
	haveBuffer        bool
	havePendingFrame  bool
	haveRunningOutput bool
}

// NewVirtualDisplay returns a capture session that mirrors displayID
// through a virtual output on the given composer. The session is
// unconfigured until real/desired info is set and ApplyConfigChanges
// succeeds.
func NewVirtualDisplay(displayID int32, composer Composer) Capture {
	return &virtualDisplay{
		displayID: displayID,
		composer:  composer,
	}
}

func (d *virtualDisplay) CaptureMethod() CaptureMethod {
	return MethodVirtualDisplay
}

func (d *virtualDisplay) DisplayID() int32 {
	return d.displayID
}

func (d *virtualDisplay) SetRealInfo(info DisplayInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.realInfo = info
}

func (d *virtualDisplay) SetDesiredInfo(info DisplayInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.desiredInfo = info
}

func (d *virtualDisplay) ApplyConfigChanges() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.haveRunningOutput {
		d.destroyVirtualOutputLocked()
	}
	return d.createVirtualOutputLocked()
}

func (d *virtualDisplay) WaitForFrame() error {
	d.mu.Lock()
	if d.waiter == nil {
		d.mu.Unlock()
		return ErrNotRunning
	}
	if d.haveBuffer {
		if st := d.reader.UnlockBuffer(&d.buf); st != bufstream.OK {
			debugf("unable to unlock buffer: %s", st.Name())
		}
		d.haveBuffer = false
	}
	waiter := d.waiter
	d.mu.Unlock()

	// Block without holding the session lock so Release can tear the
	// output down and wake us.
	if err := waiter.wait(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.waiter != waiter {
		return ErrReleased
	}
	d.havePendingFrame = true
	return nil
}

func (d *virtualDisplay) ConsumePendingFrame(frame *Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reader == nil {
		return ErrNotRunning
	}
	if st := d.reader.LockNextBuffer(&d.buf); st != bufstream.OK {
		debugf("unable to lock next buffer: %s", st.Name())
		return fmt.Errorf("lock next buffer: %w", st)
	}

	frame.Data = d.buf.Data
	frame.Format = convertFormat(d.buf.Format)
	frame.Width = d.buf.Width
	frame.Height = d.buf.Height
	frame.Stride = d.buf.Stride
	frame.BPP = bufstream.BytesPerPixel(d.buf.Format)
	frame.Size = d.buf.Stride * d.buf.Height * frame.BPP

	d.haveBuffer = true
	d.havePendingFrame = false
	return nil
}

func (d *virtualDisplay) HasPendingFrame() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.havePendingFrame
}

func (d *virtualDisplay) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyVirtualOutputLocked()
}

func (d *virtualDisplay) createVirtualOutputLocked() error {
	if d.composer == nil {
		return ErrNoComposer
	}

	layerStackRect := image.Rect(0, 0, int(d.realInfo.Width), int(d.realInfo.Height))
	visibleRect := image.Rect(0, 0, int(d.desiredInfo.Width), int(d.desiredInfo.Height))

	debugf("performing composer init check")
	if err := d.composer.InitCheck(); err != nil {
		debugf("unable to initialize composer session: %v", err)
		return fmt.Errorf("composer init check: %w", err)
	}

	debugf("creating virtual output")
	output, err := d.composer.CreateOutput(outputName, true)
	if err != nil {
		debugf("unable to create virtual output: %v", err)
		return fmt.Errorf("create virtual output: %w", err)
	}

	debugf("creating buffer stream")
	producer, consumer := bufstream.NewQueue()

	// Async buffers upset frame pacing on some backends.
	if st := consumer.DisableAsyncBuffer(); st != bufstream.OK {
		_ = d.composer.DestroyOutput(output)
		return fmt.Errorf("disable async buffers: %w", st)
	}
	if st := consumer.SetDefaultBufferSize(d.desiredInfo.Width, d.desiredInfo.Height); st != bufstream.OK {
		_ = d.composer.DestroyOutput(output)
		return fmt.Errorf("set default buffer size: %w", st)
	}
	if st := consumer.SetDefaultBufferFormat(bufstream.FormatRGBA8888); st != bufstream.OK {
		_ = d.composer.DestroyOutput(output)
		return fmt.Errorf("set default buffer format: %w", st)
	}

	reader := bufstream.NewReader(consumer, 1)
	reader.SetName(outputName)

	waiter := newFrameWaiter()
	reader.SetFrameAvailableListener(waiter)

	debugf("publishing virtual output")
	txn := &Transaction{
		Output:         output,
		Surface:        producer,
		Orientation:    d.desiredInfo.Orientation,
		LayerStackRect: layerStackRect,
		VisibleRect:    visibleRect,
		LayerStack:     0,
	}
	if err := d.composer.Commit(txn); err != nil {
		debugf("unable to publish virtual output: %v", err)
		reader.Close()
		_ = d.composer.DestroyOutput(output)
		return fmt.Errorf("publish virtual output: %w", err)
	}

	d.producer = producer
	d.consumer = consumer
	d.reader = reader
	d.waiter = waiter
	d.output = output
	d.haveRunningOutput = true
	return nil
}

func (d *virtualDisplay) destroyVirtualOutputLocked() {
	if d.output != nil {
		debugf("destroying virtual output")
		if err := d.composer.DestroyOutput(d.output); err != nil {
			debugf("unable to destroy virtual output: %v", err)
		}
	}

	if d.haveBuffer {
		if st := d.reader.UnlockBuffer(&d.buf); st != bufstream.OK {
			debugf("unable to unlock buffer: %s", st.Name())
		}
		d.haveBuffer = false
	}
	if d.waiter != nil {
		d.waiter.close()
	}
	if d.reader != nil {
		d.reader.Close()
	}

	d.producer = nil
	d.consumer = nil
	d.reader = nil
	d.waiter = nil
	d.output = nil

	d.havePendingFrame = false
	d.haveRunningOutput = false
}
