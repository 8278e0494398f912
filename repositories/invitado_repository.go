package repositories

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fpit.app/configs/configslog"
	"fpit.app/models"
)

// ErrNotFound registro inexistente, traducido desde gorm.ErrRecordNotFound.
var ErrNotFound = errors.New("registro no encontrado")

// Banderas consultables por los listados filtrados. Solo estas columnas
// pueden usarse en condiciones construidas desde la capa HTTP.
const (
	BanderaAsesorT1        = "es_asesor_t1"
	BanderaAsesorT2        = "es_asesor_t2"
	BanderaJuradoProtocolo = "puede_ser_jurado_protocolo"
	BanderaJuradoInforme   = "puede_ser_jurado_informe"
	BanderaEspecial        = "es_invitado_especial"
)

var banderasPermitidas = map[string]bool{
	BanderaAsesorT1:        true,
	BanderaAsesorT2:        true,
	BanderaJuradoProtocolo: true,
	BanderaJuradoInforme:   true,
	BanderaEspecial:        true,
}

// IInvitadoRepository operaciones de persistencia de invitados.
type IInvitadoRepository interface {
	Create(ctx context.Context, invitado *models.Invitado) error
	FindByID(ctx context.Context, id uint) (*models.Invitado, error)
	FindAll(ctx context.Context) ([]models.Invitado, error)
	FindByBandera(ctx context.Context, bandera string) ([]models.Invitado, error)
	Update(ctx context.Context, invitado *models.Invitado) error
	ReemplazarPuestos(ctx context.Context, invitadoID uint, puestos []models.InvitadoPuesto) error
	Delete(ctx context.Context, invitado *models.Invitado) error
	Count(ctx context.Context) (int64, error)
	CountPorBandera(ctx context.Context, bandera string) (int64, error)
	CountJuradosAmbos(ctx context.Context) (int64, error)
}

// InvitadoRepository implementa IInvitadoRepository sobre GORM.
type InvitadoRepository struct {
	db *gorm.DB
}

// NewInvitadoRepository crea el repositorio con la conexión dada.
func NewInvitadoRepository(db *gorm.DB) IInvitadoRepository {
	return &InvitadoRepository{db: db}
}

func (r *InvitadoRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create inserta el invitado junto con sus puestos.
func (r *InvitadoRepository) Create(ctx context.Context, invitado *models.Invitado) error {
	if invitado == nil {
		return errors.New("invitado nulo")
	}
	return r.getDB(ctx).Create(invitado).Error
}

// FindByID busca un invitado por su ID, con sus puestos ordenados.
func (r *InvitadoRepository) FindByID(ctx context.Context, id uint) (*models.Invitado, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var invitado models.Invitado
	err := r.getDB(ctx).Preload("Puestos", ordenarPuestos).First(&invitado, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InvitadoRepository.FindByID: error de base de datos",
			zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &invitado, nil
}

// FindAll devuelve todos los invitados ordenados por ID.
func (r *InvitadoRepository) FindAll(ctx context.Context) ([]models.Invitado, error) {
	var invitados []models.Invitado
	err := r.getDB(ctx).Preload("Puestos", ordenarPuestos).Order("id").Find(&invitados).Error
	if err != nil {
		configslog.Log.Error("InvitadoRepository.FindAll: error de base de datos", zap.Error(err))
		return nil, err
	}
	return invitados, nil
}

// FindByBandera devuelve los invitados con la bandera indicada activa.
func (r *InvitadoRepository) FindByBandera(ctx context.Context, bandera string) ([]models.Invitado, error) {
	if !banderasPermitidas[bandera] {
		return nil, errors.New("bandera de filtro no permitida: " + bandera)
	}
	var invitados []models.Invitado
	err := r.getDB(ctx).Preload("Puestos", ordenarPuestos).
		Where(bandera+" = ?", true).Order("id").Find(&invitados).Error
	if err != nil {
		configslog.Log.Error("InvitadoRepository.FindByBandera: error de base de datos",
			zap.String("bandera", bandera), zap.Error(err))
		return nil, err
	}
	return invitados, nil
}

// Update guarda los cambios del invitado (sin tocar los puestos; para
// eso está ReemplazarPuestos).
func (r *InvitadoRepository) Update(ctx context.Context, invitado *models.Invitado) error {
	if invitado == nil || invitado.ID == 0 {
		return errors.New("invitado a actualizar no válido")
	}
	return r.getDB(ctx).Omit("Puestos").Save(invitado).Error
}

// ReemplazarPuestos sustituye la lista completa de puestos del invitado.
func (r *InvitadoRepository) ReemplazarPuestos(ctx context.Context, invitadoID uint, puestos []models.InvitadoPuesto) error {
	if invitadoID == 0 {
		return errors.New("ID de invitado no válido")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invitado_id = ?", invitadoID).Delete(&models.InvitadoPuesto{}).Error; err != nil {
			return err
		}
		for i := range puestos {
			puestos[i].ID = 0
			puestos[i].InvitadoID = invitadoID
			if puestos[i].Orden == 0 {
				puestos[i].Orden = i + 1
			}
		}
		if len(puestos) == 0 {
			return nil
		}
		return tx.Create(&puestos).Error
	})
}

// Delete elimina el invitado de forma definitiva; los puestos caen en
// cascada por la restricción de la clave foránea.
func (r *InvitadoRepository) Delete(ctx context.Context, invitado *models.Invitado) error {
	if invitado == nil || invitado.ID == 0 {
		return errors.New("invitado a eliminar no válido")
	}
	resultado := r.getDB(ctx).Delete(invitado)
	if resultado.Error != nil {
		configslog.Log.Error("InvitadoRepository.Delete: error de base de datos",
			zap.Uint("id", invitado.ID), zap.Error(resultado.Error))
		return resultado.Error
	}
	if resultado.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count devuelve el total de invitados.
func (r *InvitadoRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.getDB(ctx).Model(&models.Invitado{}).Count(&total).Error
	return total, err
}

// CountPorBandera cuenta los invitados con la bandera activa.
func (r *InvitadoRepository) CountPorBandera(ctx context.Context, bandera string) (int64, error) {
	if !banderasPermitidas[bandera] {
		return 0, errors.New("bandera de filtro no permitida: " + bandera)
	}
	var total int64
	err := r.getDB(ctx).Model(&models.Invitado{}).Where(bandera+" = ?", true).Count(&total).Error
	return total, err
}

// CountJuradosAmbos cuenta los invitados que pueden ser jurado de
// protocolo y de informe a la vez.
func (r *InvitadoRepository) CountJuradosAmbos(ctx context.Context) (int64, error) {
	var total int64
	err := r.getDB(ctx).Model(&models.Invitado{}).
		Where("puede_ser_jurado_protocolo = ? AND puede_ser_jurado_informe = ?", true, true).
		Count(&total).Error
	return total, err
}

func ordenarPuestos(db *gorm.DB) *gorm.DB {
	return db.Order("invitado_puestos.orden")
}

var _ IInvitadoRepository = (*InvitadoRepository)(nil)
