package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/EXPORTER-DEV/fsp-api-client/filter"
	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
)

// maxConcurrentLookups bounds the parallel requests of the get command
const maxConcurrentLookups = 8

var (
	entityID    string
	recordType  string
	source      string
	description string
	creatorID   string
	updatorID   string
	firstName   string
	lastName    string
	groupName   string
	entityAttrs map[string]string

	offset     int
	limit      int
	fetchAll   bool
	filterExpr string
)

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:     "find",
	Short:   "Find the record stored for an entity",
	PreRunE: initializeApp,
	RunE:    runFind,
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:     "get ID [ID...]",
	Short:   "Fetch records by id",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: initializeApp,
	RunE:    runGet,
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	Long: `List one page of records, or every record with --all.

Records can be narrowed further with an expression, for example:

  fspctl list --all --filter 'Source == "vk" and hasPhotos() and createdAfter(daysAgo(30))'`,
	PreRunE: initializeApp,
	RunE:    runList,
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a record",
	Long: `Create a record for an entity.

VK users take --first-name/--last-name, VK groups take --name, every other
type takes free-form --entity key=value pairs.`,
	PreRunE: initializeApp,
	RunE:    runCreate,
}

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:     "edit ID",
	Short:   "Change the description of a record",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runEdit,
}

func init() {
	rootCmd.AddCommand(findCmd, getCmd, listCmd, createCmd, editCmd)

	findCmd.Flags().StringVarP(&entityID, "entity-id", "e", "", "entity id (required)")
	findCmd.Flags().StringVarP(&recordType, "type", "t", "", "record type (user, group, external, instagram, telegram)")
	findCmd.Flags().StringVarP(&source, "source", "s", "", "record source (vk, telegram)")
	findCmd.MarkFlagRequired("entity-id")

	listCmd.Flags().IntVar(&offset, "offset", 0, "offset of the first record")
	listCmd.Flags().IntVar(&limit, "limit", 0, "page size (default from output.page_size)")
	listCmd.Flags().StringVarP(&recordType, "type", "t", "", "record type")
	listCmd.Flags().StringVarP(&source, "source", "s", "", "record source")
	listCmd.Flags().BoolVar(&fetchAll, "all", false, "fetch every page")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")

	createCmd.Flags().StringVarP(&entityID, "entity-id", "e", "", "entity id (required)")
	createCmd.Flags().StringVarP(&recordType, "type", "t", "", "record type (required)")
	createCmd.Flags().StringVarP(&source, "source", "s", "", "record source (required)")
	createCmd.Flags().StringVarP(&description, "description", "d", "", "record description")
	createCmd.Flags().StringVar(&creatorID, "creator-id", "", "id of the creating user (required)")
	createCmd.Flags().StringVar(&firstName, "first-name", "", "VK user first name")
	createCmd.Flags().StringVar(&lastName, "last-name", "", "VK user last name")
	createCmd.Flags().StringVar(&groupName, "name", "", "VK group name")
	createCmd.Flags().StringToStringVar(&entityAttrs, "entity", nil, "entity attributes for other types (key=value)")
	createCmd.MarkFlagRequired("entity-id")
	createCmd.MarkFlagRequired("type")
	createCmd.MarkFlagRequired("source")
	createCmd.MarkFlagRequired("creator-id")

	editCmd.Flags().StringVarP(&source, "source", "s", "", "record source (required)")
	editCmd.Flags().StringVarP(&description, "description", "d", "", "new description (required)")
	editCmd.Flags().StringVar(&updatorID, "updator-id", "", "id of the editing user (required)")
	editCmd.MarkFlagRequired("source")
	editCmd.MarkFlagRequired("description")
	editCmd.MarkFlagRequired("updator-id")
}

func runFind(cmd *cobra.Command, args []string) error {
	rt, src, err := parseTypeAndSource(recordType, source)
	if err != nil {
		return err
	}

	record, err := client.Find(cmd.Context(), fsp.FindRequest{
		EntityID: entityID,
		Type:     rt,
		Source:   src,
	})
	if err != nil {
		return fmt.Errorf("find %s: %w", entityID, err)
	}

	if record == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No record found for entity %s.\n", entityID)
		return nil
	}

	return printRecords(cmd, []fsp.EnrichedRecord{*record})
}

func runGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	records, err := fetchByIDs(cmd.Context(), client, ids)
	if err != nil {
		return err
	}

	var found []fsp.EnrichedRecord
	for i, record := range records {
		if record == nil {
			logger.Warn().Int64("id", ids[i]).Msg("Record not found")
			continue
		}
		found = append(found, *record)
	}

	return printRecords(cmd, found)
}

// fetchByIDs looks up every id concurrently; results keep the order of ids
// and hold nil for records that do not exist.
func fetchByIDs(ctx context.Context, api fsp.API, ids []int64) ([]*fsp.EnrichedRecord, error) {
	records := make([]*fsp.EnrichedRecord, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			record, err := api.FindByID(ctx, fsp.FindByIDRequest{ID: id})
			if err != nil {
				return fmt.Errorf("record %d: %w", id, err)
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func runList(cmd *cobra.Command, args []string) error {
	rt, src, err := parseTypeAndSource(recordType, source)
	if err != nil {
		return err
	}

	pageSize := limit
	if pageSize <= 0 {
		pageSize = cfg.Output.PageSize
	}

	var compiled filter.CompiledFilter
	if filterExpr != "" {
		compiled, err = filter.CompileFilter(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	req := fsp.FindAllRequest{
		Offset: offset,
		Limit:  pageSize,
		Type:   rt,
		Source: src,
	}

	var records []fsp.EnrichedRecord
	if fetchAll {
		records, err = fetchAllPages(cmd.Context(), client, req)
	} else {
		var page *fsp.Page
		page, err = client.FindAll(cmd.Context(), req)
		if page != nil {
			records = page.Items
		}
	}
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	if compiled != nil {
		var evalErr error
		records, evalErr = filter.Apply(cmd.Context(), compiled, records)
		if evalErr != nil {
			logger.Warn().Err(evalErr).Msg("Some records could not be evaluated")
		}
	}

	return printRecords(cmd, records)
}

// fetchAllPages walks the listing from req.Offset until a short page
func fetchAllPages(ctx context.Context, api fsp.API, req fsp.FindAllRequest) ([]fsp.EnrichedRecord, error) {
	var all []fsp.EnrichedRecord
	for {
		page, err := api.FindAll(ctx, req)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		logger.Debug().
			Int("offset", req.Offset).
			Int("count", len(page.Items)).
			Int("total", len(all)).
			Msg("Retrieved records page")

		if len(page.Items) < req.Limit || len(page.Items) == 0 {
			return all, nil
		}
		req.Offset += len(page.Items)
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	req, err := buildCreateRequest()
	if err != nil {
		return err
	}

	record, err := client.Create(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("create record for %s: %w", entityID, err)
	}
	if record == nil {
		return fmt.Errorf("create record for %s: the service did not confirm the record", entityID)
	}

	logger.Info().Int64("id", record.ID).Str("entity", record.Entity.ID).Msg("Record created")
	return printRecords(cmd, []fsp.EnrichedRecord{*record})
}

// buildCreateRequest picks the entity shape that matches --type
func buildCreateRequest() (fsp.CreateRequest, error) {
	rt, src, err := parseTypeAndSource(recordType, source)
	if err != nil {
		return fsp.CreateRequest{}, err
	}

	switch rt {
	case fsp.RecordTypeUser:
		if firstName == "" && lastName == "" {
			return fsp.CreateRequest{}, fmt.Errorf("user records need --first-name or --last-name")
		}
		return fsp.NewVKUserCreateRequest(entityID, fsp.VKUserEntity{FirstName: firstName, LastName: lastName}, src, description, creatorID), nil
	case fsp.RecordTypeGroup:
		if groupName == "" {
			return fsp.CreateRequest{}, fmt.Errorf("group records need --name")
		}
		return fsp.NewVKGroupCreateRequest(entityID, fsp.VKGroupEntity{Name: groupName}, src, description, creatorID), nil
	default:
		entity := make(fsp.OtherEntity, len(entityAttrs))
		for k, v := range entityAttrs {
			entity[k] = v
		}
		return fsp.NewOtherCreateRequest(entityID, rt, entity, src, description, creatorID), nil
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	_, src, err := parseTypeAndSource("", source)
	if err != nil {
		return err
	}

	record, err := client.Edit(cmd.Context(), fsp.EditRequest{
		ID:          ids[0],
		Source:      src,
		Description: description,
		UpdatorID:   updatorID,
	})
	if err != nil {
		return fmt.Errorf("edit record %d: %w", ids[0], err)
	}
	if record == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Record %d not found.\n", ids[0])
		return nil
	}

	return printRecords(cmd, []fsp.EnrichedRecord{*record})
}

// parseTypeAndSource validates optional --type and --source values
func parseTypeAndSource(rawType, rawSource string) (fsp.RecordType, fsp.RecordSource, error) {
	rt := fsp.RecordType(rawType)
	if rawType != "" && !rt.IsValid() {
		return "", "", fmt.Errorf("invalid record type: %s", rawType)
	}

	src := fsp.RecordSource(rawSource)
	if rawSource != "" && !src.IsValid() {
		return "", "", fmt.Errorf("invalid record source: %s (must be 'vk' or 'telegram')", rawSource)
	}

	return rt, src, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
