package constants

// Kapasitas maksimum peserta per batch (aturan program).
const MaxBatchParticipants = 50

// Format tanggal kalender yang dipakai lintas fitur training.
const DateLayout = "2006-01-02"

// Format jam mulai absensi harian (HH:MM, 24 jam).
const DailyTimeLayout = "15:04"
