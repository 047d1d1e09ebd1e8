// file: internals/features/training/attendance/service/scheduler.go
//
// State machine jendela absensi harian. Fungsi murni: `now` selalu di-inject
// supaya deterministik di test — loop polling "sudah buka belum" urusan caller.
package service

import (
	"time"

	"pelatihanku_backend/internals/constants"
)

/* =========================
   States
========================= */

type DayState string

const (
	// Tanggal masih di depan, atau hari ini tapi jam mulai belum lewat.
	DayStateNotOpen DayState = "not_open"
	// Verifikasi batch belum lengkap — meng-override semua state lain.
	DayStateBlockedUnverified DayState = "blocked_unverified"
	// Ada tanggal lampau tanpa AttendanceDay; semua window tertahan
	// sampai backlog di-backfill berurutan.
	DayStateBlockedBacklog DayState = "blocked_backlog"
	// Verifikasi lengkap, backlog kosong, jam mulai sudah lewat, belum tercatat.
	DayStateOpen DayState = "open"
	// AttendanceDay untuk tanggal ini sudah ada.
	DayStateRecorded DayState = "recorded"
)

/* =========================
   BatchWindow
========================= */

// BatchWindow: parameter jendela absensi sebuah batch.
// DailyStartTime format HH:MM; string kosong = belum pernah diset
// (window tidak bisa buka sama sekali).
type BatchWindow struct {
	StartDate      time.Time
	EndDate        time.Time
	DailyStartTime string
	Location       *time.Location
}

func (w BatchWindow) loc() *time.Location {
	if w.Location != nil {
		return w.Location
	}
	return time.Local
}

// DateKey: kunci kalender yang dipakai set `recorded`.
func DateKey(t time.Time) string { return t.Format(constants.DateLayout) }

func dateOnly(t time.Time, loc *time.Location) time.Time {
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

/* =========================
   MissingDates
========================= */

// MissingDates: tanggal di [start_date, min(end_date, kemarin)] yang belum punya
// AttendanceDay, urut naik — urutan ini pula yang wajib dipakai backfill.
func MissingDates(w BatchWindow, recorded map[string]bool, now time.Time) []time.Time {
	loc := w.loc()
	start := dateOnly(w.StartDate, loc)
	yesterday := dateOnly(now, loc).AddDate(0, 0, -1)
	last := dateOnly(w.EndDate, loc)
	if yesterday.Before(last) {
		last = yesterday
	}

	var missing []time.Time
	for d := start; !d.After(last); d = d.AddDate(0, 0, 1) {
		if !recorded[DateKey(d)] {
			missing = append(missing, d)
		}
	}
	return missing
}

/* =========================
   StateFor
========================= */

// StateFor menghitung state jendela absensi (batch, tanggal) pada saat `now`.
//
// Urutan evaluasi mengikuti prioritas aturan program:
//  1. verifikasi belum lengkap  → blocked_unverified (tanpa kecuali)
//  2. tanggal sudah tercatat    → recorded
//  3. di luar span / masa depan → not_open
//  4. tanggal lampau tanpa record → blocked_backlog (hanya backfill yang
//     bisa menutupnya; pencatatan normal sudah lewat)
//  5. hari ini: backlog → blocked_backlog; jam mulai belum lewat → not_open;
//     sisanya → open
func StateFor(w BatchWindow, fullyVerified bool, recorded map[string]bool, date, now time.Time) DayState {
	if !fullyVerified {
		return DayStateBlockedUnverified
	}

	loc := w.loc()
	d := dateOnly(date, loc)
	today := dateOnly(now, loc)
	start := dateOnly(w.StartDate, loc)
	end := dateOnly(w.EndDate, loc)

	if recorded[DateKey(d)] {
		return DayStateRecorded
	}
	if d.Before(start) || d.After(end) || d.After(today) {
		return DayStateNotOpen
	}
	if d.Before(today) {
		return DayStateBlockedBacklog
	}

	// d == hari ini
	if len(MissingDates(w, recorded, now)) > 0 {
		return DayStateBlockedBacklog
	}
	if w.DailyStartTime == "" {
		return DayStateNotOpen
	}
	startClock, err := time.Parse(constants.DailyTimeLayout, w.DailyStartTime)
	if err != nil {
		return DayStateNotOpen
	}
	opensAt := time.Date(d.Year(), d.Month(), d.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc)
	if now.In(loc).Before(opensAt) {
		return DayStateNotOpen
	}
	return DayStateOpen
}
