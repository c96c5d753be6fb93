package provider

import "time"

// nil-safe metrics helpers; the daemon runs without a registry by default.

func (d *Daemon) recordDiscovery(start time.Time, filesExamined int) {
	if d.metrics != nil {
		d.metrics.RecordDiscoveryCycle(d.now().Sub(start), filesExamined)
	}
}

func (d *Daemon) recordClaim(outcome string) {
	if d.metrics != nil {
		d.metrics.RecordClaim(outcome)
	}
}

func (d *Daemon) recordReconciliation(start time.Time, usersUpdated int) {
	if d.metrics != nil {
		d.metrics.RecordReconciliation(d.now().Sub(start), usersUpdated)
	}
}

func (d *Daemon) recordHeartbeat(outcome string) {
	if d.metrics != nil {
		d.metrics.RecordHeartbeat(outcome)
	}
}
