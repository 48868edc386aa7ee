package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bigkaa/foodwagen/internal/config"
	"github.com/bigkaa/foodwagen/internal/domain/model"
	"github.com/bigkaa/foodwagen/internal/foodclient"
	"github.com/bigkaa/foodwagen/internal/service"
)

// errInvalidDraft — черновик не прошёл валидацию (ошибки полей уже выведены).
var errInvalidDraft = errors.New("черновик не прошёл валидацию")

// openCatalog создаёт каталог поверх Food API из конфигурации окружения.
// Логи пишутся в stderr.
func openCatalog() (*service.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("загрузка конфигурации: %w", err)
	}
	logger := config.SetupLoggerTo(cfg, os.Stderr)

	client, err := foodclient.New(cfg.FoodAPIURL, cfg.FoodAPICACertPath, cfg.FoodAPITimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("создание клиента Food API: %w", err)
	}
	return service.NewCatalog(client, cfg.PageSize, logger), nil
}

func newListCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Загрузить каталог и вывести первые страницы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCatalog()
			if err != nil {
				return err
			}
			snap := c.Load(cmd.Context())
			return printWindow(cmd, c, snap, pages)
		},
	}
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Количество страниц для вывода")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Найти записи по имени (пустой запрос — весь каталог)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			snap := c.Search(cmd.Context(), query)
			return printWindow(cmd, c, snap, pages)
		},
	}
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Количество страниц для вывода")
	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Создать запись",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCatalog()
			if err != nil {
				return err
			}
			return printMutation(cmd, c.Add(cmd.Context(), draftFromFlags(cmd.Flags())))
		},
	}
	addDraftFlags(cmd.Flags())
	return cmd
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Изменить переданные поля записи",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := draftFromFlags(cmd.Flags())
			if draft.IsEmpty() {
				return errors.New("не передано ни одного поля для изменения")
			}

			c, err := openCatalog()
			if err != nil {
				return err
			}
			// Текущая запись нужна для валидации итогового вида
			if snap := c.Load(cmd.Context()); snap.Status == service.StatusError {
				return errors.New(snap.Error)
			}
			return printMutation(cmd, c.Edit(cmd.Context(), args[0], draft))
		},
	}
	addDraftFlags(cmd.Flags())
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить запись",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog()
			if err != nil {
				return err
			}
			return printMutation(cmd, c.Remove(cmd.Context(), args[0]))
		},
	}
}

// addDraftFlags регистрирует флаги полей черновика.
func addDraftFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "Название блюда")
	fs.String("rating", "", "Рейтинг блюда (1-5)")
	fs.String("image", "", "URL изображения блюда")
	fs.String("restaurant", "", "Название ресторана")
	fs.String("logo", "", "URL логотипа ресторана")
	fs.String("status", "", "Статус ресторана: 'Open Now' или 'Closed'")
	fs.String("price", "", "Цена")
}

// draftFromFlags собирает черновик только из явно переданных флагов.
func draftFromFlags(fs *pflag.FlagSet) model.FoodDraft {
	value := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}

	d := model.FoodDraft{
		FoodName:         value("name"),
		FoodImage:        value("image"),
		RestaurantName:   value("restaurant"),
		RestaurantImage:  value("logo"),
		RestaurantStatus: value("status"),
		Price:            value("price"),
	}
	if r := value("rating"); r != nil {
		d.FoodRating = model.Ptr(model.ParseRating(*r))
	}
	return d
}

// printWindow расширяет окно до pages страниц и выводит видимые записи.
func printWindow(cmd *cobra.Command, c *service.Catalog, snap service.Snapshot, pages int) error {
	if snap.Status == service.StatusError {
		return errors.New(snap.Error)
	}
	for i := 1; i < pages && snap.HasMore; i++ {
		snap = c.LoadMore()
	}
	return writeJSON(cmd, snap.Window)
}

// printMutation выводит результат мутации. Ошибки полей выводятся в stdout
// и дают ненулевой код возврата.
func printMutation(cmd *cobra.Command, m service.Mutation) error {
	switch m.Outcome {
	case service.OutcomeOK:
		if m.Record != nil {
			return writeJSON(cmd, m.Record)
		}
		return writeJSON(cmd, map[string]string{"status": "deleted"})
	case service.OutcomeInvalid:
		if err := writeJSON(cmd, map[string]any{"errors": m.Errors}); err != nil {
			return err
		}
		return errInvalidDraft
	default:
		return errors.New(m.Message)
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
