package utils

import (
	"fmt"
	"time"
)

// Lima n'applique pas d'heure d'été
var limaTZ = time.FixedZone("PET", -5*60*60)

var weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var monthsES = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// FormatLongDateES formate une date à la manière es-PE : "martes, 10 de marzo de 2026"
func FormatLongDateES(t time.Time) string {
	t = t.In(limaTZ)
	return fmt.Sprintf("%s, %d de %s de %d", weekdaysES[t.Weekday()], t.Day(), monthsES[t.Month()-1], t.Year())
}
