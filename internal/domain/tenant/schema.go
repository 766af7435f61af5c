// Package tenant resuelve el schema de PostgreSQL que aísla los datos de cada
// kiosco. La resolución es determinista: el mismo id produce siempre el mismo
// schema, en cualquier proceso.
package tenant

import (
	"fmt"
	"regexp"
	"strings"
)

// SchemaPrefix antecede todos los schemas de tenant.
const SchemaPrefix = "kiosco_"

var schemaPattern = regexp.MustCompile(`^kiosco_[a-f0-9]{8}$`)

// SchemaName mapea un id de kiosco (UUID) a su nombre de schema: el prefijo
// fijo más los primeros 8 caracteres hex del id normalizado (minúsculas, sin
// guiones). El resultado solo contiene [a-z0-9_] y tiene largo fijo, por lo
// que es seguro interpolarlo como identificador SQL sin escapado adicional.
//
// Falla con id vacío: jamás se devuelve un schema por defecto, porque eso
// cruzaría silenciosamente la frontera entre tenants.
//
// El truncado a 8 hex deja 32 bits de entropía; la probabilidad de colisión
// no es despreciable a escala (cota de cumpleaños). Por eso la creación de
// kioscos verifica unicidad del schema y falla ruidosamente ante colisión.
func SchemaName(kioscoID string) (string, error) {
	if kioscoID == "" {
		return "", fmt.Errorf("tenant: kioscoID vacío")
	}
	normalizado := strings.ToLower(strings.ReplaceAll(kioscoID, "-", ""))
	if len(normalizado) < 8 {
		return "", fmt.Errorf("tenant: kioscoID demasiado corto: %q", kioscoID)
	}
	for _, r := range normalizado[:8] {
		if !isHex(r) {
			return "", fmt.Errorf("tenant: kioscoID no es hex: %q", kioscoID)
		}
	}
	return SchemaPrefix + normalizado[:8], nil
}

// EsSchemaValido informa si un nombre cumple el formato kiosco_ + 8 hex.
func EsSchemaValido(name string) bool {
	return schemaPattern.MatchString(name)
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}
