package input

// Drag is the pointer path to Engine.Move: a press records the source row,
// hovering is only a rendering hint, and a release on a row moves the source
// there.
type Drag struct {
	active bool
	source int
	over   int
}

// Start records the row the drag was picked up from.
func (d *Drag) Start(i int) {
	d.active = true
	d.source = i
	d.over = i
}

// Over records the row under the pointer.
func (d *Drag) Over(i int) {
	if d.active {
		d.over = i
	}
}

// Active reports whether a drag is in progress and its source and hover rows.
func (d *Drag) Active() (source, over int, ok bool) {
	return d.source, d.over, d.active
}

// Cancel abandons the drag without moving anything.
func (d *Drag) Cancel() {
	*d = Drag{}
}

// Drop moves the source row to target and clears the drag. Dropping on the
// source row, or with no drag in progress, changes nothing.
func (d *Drag) Drop(target int, eng Engine) Result {
	if !d.active {
		return Result{}
	}
	source := d.source
	d.Cancel()
	k := eng.Len()
	if source == target || source < 0 || source >= k || target < 0 || target >= k {
		return Result{}
	}
	e, _ := eng.EntityAt(source)
	if !eng.Move(source, target) {
		return Result{}
	}
	return Result{Changed: true, Entity: &e, From: source, To: target}
}
