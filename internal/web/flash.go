package web

import "strings"

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case "registered":
		return "Pendaftaran berhasil dikirim. Silakan lakukan pembayaran."
	case "message_sent":
		return "Terima kasih! Pesan kamu sudah kami terima."
	case "payments_saved":
		return "Status pembayaran disimpan."
	case "no_changes":
		return "Tidak ada perubahan status pembayaran."
	case "batches_saved":
		return "Pembagian batch disimpan."
	case "moto_saved":
		return "Hasil moto disimpan."
	case "finish_saved":
		return "Hasil sesi disimpan."
	case "match_named":
		return "Nama match disimpan."
	case "sheets_published":
		return "Data dikirim ke Google Sheets."
	case "duplicate":
		return "Data ini sudah dikirim sebelumnya."
	}
	return ""
}
