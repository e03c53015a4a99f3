package monitor

// allRoutines is the full syscall dispatch table, assembled from each category's routine list.
var allRoutines = func() []Routine {
	var all []Routine
	all = append(all, ioRoutines...)
	all = append(all, memoryRoutines...)
	all = append(all, stringRoutines...)
	all = append(all, mathRoutines...)
	all = append(all, graphicsRoutines...)

	return all
}()
