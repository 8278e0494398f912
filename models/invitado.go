package models

// Invitado es una persona elegible para ser invitada al evento.
// Las banderas de rol son independientes entre sí y se actualizan
// de forma explícita; el ID es inmutable una vez asignado.
type Invitado struct {
	BaseModel
	NombreCompleto     string `gorm:"type:varchar(200);not null" json:"nombre_completo"`
	CaracterInvitacion string `gorm:"type:varchar(300);not null" json:"caracter_invitacion"`
	Nota               string `gorm:"type:text" json:"nota,omitempty"`

	// Puestos ordenados del invitado (cargo + organización), hasta
	// MaxPuestos entradas. El primero es el que aparece en la carta
	// y en la nomenclatura de archivos.
	Puestos []InvitadoPuesto `gorm:"foreignKey:InvitadoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"puestos,omitempty"`

	EsAsesorT1              bool `gorm:"default:false" json:"es_asesor_t1"`
	EsAsesorT2              bool `gorm:"default:false" json:"es_asesor_t2"`
	PuedeSerJuradoProtocolo bool `gorm:"default:false" json:"puede_ser_jurado_protocolo"`
	PuedeSerJuradoInforme   bool `gorm:"default:false" json:"puede_ser_jurado_informe"`
	EsInvitadoEspecial      bool `gorm:"default:false" json:"es_invitado_especial"`
}

// MaxPuestos límite de puestos por invitado.
const MaxPuestos = 4

// InvitadoPuesto una afiliación organizacional del invitado.
type InvitadoPuesto struct {
	BaseModel
	InvitadoID   uint   `gorm:"index;not null" json:"-"`
	Orden        int    `gorm:"not null;default:1" json:"-"`
	Cargo        string `gorm:"type:varchar(200)" json:"cargo"`
	Organizacion string `gorm:"type:varchar(200)" json:"organizacion"`
	Abreviacion  string `gorm:"type:varchar(50)" json:"abreviacion,omitempty"`
}

// PuestoPrincipal devuelve el primer puesto del invitado o nil si no tiene.
func (i *Invitado) PuestoPrincipal() *InvitadoPuesto {
	if len(i.Puestos) == 0 {
		return nil
	}
	principal := &i.Puestos[0]
	for idx := range i.Puestos {
		if i.Puestos[idx].Orden < principal.Orden {
			principal = &i.Puestos[idx]
		}
	}
	return principal
}
