// Package storagetest provides an in-memory DynamoAPI for repository tests.
// It implements the slice of DynamoDB the repositories actually use:
// conditional puts, SET update expressions, key-condition queries with
// begins_with, secondary indexes, and paged scans.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// IndexDef describes a secondary index on a table.
type IndexDef struct {
	Name         string
	PartitionKey string
	SortKey      string
}

// TableDef describes a table's key schema.
type TableDef struct {
	Name         string
	PartitionKey string
	SortKey      string
	Indexes      []IndexDef
}

type table struct {
	def   TableDef
	items []map[string]types.AttributeValue
}

// Fake is an in-memory DynamoAPI. Safe for concurrent use.
type Fake struct {
	mu     sync.Mutex
	tables map[string]*table
}

func New(defs ...TableDef) *Fake {
	f := &Fake{tables: make(map[string]*table)}
	for _, def := range defs {
		f.tables[def.Name] = &table{def: def}
	}
	return f
}

func (f *Fake) tableFor(name *string) (*table, error) {
	if name == nil {
		return nil, fmt.Errorf("storagetest: missing table name")
	}
	t, ok := f.tables[*name]
	if !ok {
		return nil, fmt.Errorf("storagetest: unknown table %q", *name)
	}
	return t, nil
}

func (f *Fake) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.tableFor(in.TableName)
	if err != nil {
		return nil, err
	}
	if item := t.find(in.Key); item != nil {
		return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *Fake) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.tableFor(in.TableName)
	if err != nil {
		return nil, err
	}

	key := t.keyOf(in.Item)
	existing := t.find(key)

	if in.ConditionExpression != nil {
		attr, ok := parseAttributeNotExists(*in.ConditionExpression)
		if !ok {
			return nil, fmt.Errorf("storagetest: unsupported condition %q", *in.ConditionExpression)
		}
		if existing != nil {
			if _, present := existing[attr]; present {
				return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
			}
		}
	}

	t.put(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *Fake) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.tableFor(in.TableName)
	if err != nil {
		return nil, err
	}
	t.delete(in.Key)
	return &dynamodb.DeleteItemOutput{}, nil
}

// UpdateItem supports "SET #a = :a, #b = :b" expressions and mimics DynamoDB's
// upsert behavior when the key does not exist yet.
func (f *Fake) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.tableFor(in.TableName)
	if err != nil {
		return nil, err
	}

	item := t.find(in.Key)
	if item == nil {
		item = copyItem(in.Key)
		t.put(item)
		item = t.find(in.Key)
	}

	if in.UpdateExpression == nil {
		return nil, fmt.Errorf("storagetest: missing update expression")
	}
	expr := strings.TrimSpace(*in.UpdateExpression)
	if !strings.HasPrefix(expr, "SET ") {
		return nil, fmt.Errorf("storagetest: unsupported update expression %q", expr)
	}
	for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("storagetest: malformed clause %q", clause)
		}
		attr := resolveName(strings.TrimSpace(parts[0]), in.ExpressionAttributeNames)
		val, ok := in.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
		if !ok {
			return nil, fmt.Errorf("storagetest: unbound value in clause %q", clause)
		}
		item[attr] = val
	}

	out := &dynamodb.UpdateItemOutput{}
	if in.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = copyItem(item)
	}
	return out, nil
}

func (f *Fake) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.tableFor(in.TableName)
	if err != nil {
		return nil, err
	}

	pkAttr, skAttr := t.def.PartitionKey, t.def.SortKey
	if in.IndexName != nil {
		idx, ok := t.index(*in.IndexName)
		if !ok {
			return nil, fmt.Errorf("storagetest: unknown index %q", *in.IndexName)
		}
		pkAttr, skAttr = idx.PartitionKey, idx.SortKey
	}

	if in.KeyConditionExpression == nil {
		return nil, fmt.Errorf("storagetest: missing key condition")
	}
	cond, err := parseKeyCondition(*in.KeyConditionExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	if cond.pkAttr != pkAttr {
		return nil, fmt.Errorf("storagetest: key condition %q does not match key %q", cond.pkAttr, pkAttr)
	}

	var matched []map[string]types.AttributeValue
	for _, item := range t.items {
		if !avEqual(item[cond.pkAttr], cond.pkValue) {
			continue
		}
		if cond.skAttr != "" && !cond.skMatches(item[cond.skAttr]) {
			continue
		}
		matched = append(matched, item)
	}
	if skAttr != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return stringOf(matched[i][skAttr]) < stringOf(matched[j][skAttr])
		})
	}

	items, lek := t.page(matched, in.ExclusiveStartKey, in.Limit)
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: lek, Count: int32(len(items))}, nil
}

func (f *Fake) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.tableFor(in.TableName)
	if err != nil {
		return nil, err
	}

	// Limit applies to scanned items before filtering, as in DynamoDB.
	scanned, lek := t.page(t.items, in.ExclusiveStartKey, in.Limit)

	items := scanned
	if in.FilterExpression != nil {
		filter, err := parseFilter(*in.FilterExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		items = nil
		for _, item := range scanned {
			if filter.matches(item) {
				items = append(items, item)
			}
		}
	}

	return &dynamodb.ScanOutput{Items: items, LastEvaluatedKey: lek, Count: int32(len(items))}, nil
}

// page returns up to limit items starting after startKey, copying each, and a
// LastEvaluatedKey when more items remain.
func (t *table) page(items []map[string]types.AttributeValue, startKey map[string]types.AttributeValue, limit *int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	start := 0
	if len(startKey) > 0 {
		for i, item := range items {
			if t.sameKey(item, startKey) {
				start = i + 1
				break
			}
		}
	}

	end := len(items)
	if limit != nil && start+int(*limit) < end {
		end = start + int(*limit)
	}

	out := make([]map[string]types.AttributeValue, 0, end-start)
	for _, item := range items[start:end] {
		out = append(out, copyItem(item))
	}

	var lek map[string]types.AttributeValue
	if end < len(items) && end > start {
		lek = copyItem(t.keyOf(items[end-1]))
	}
	return out, lek
}

func (t *table) index(name string) (IndexDef, bool) {
	for _, idx := range t.def.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return IndexDef{}, false
}

func (t *table) keyOf(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{t.def.PartitionKey: item[t.def.PartitionKey]}
	if t.def.SortKey != "" {
		key[t.def.SortKey] = item[t.def.SortKey]
	}
	return key
}

func (t *table) sameKey(item, key map[string]types.AttributeValue) bool {
	if !avEqual(item[t.def.PartitionKey], key[t.def.PartitionKey]) {
		return false
	}
	if t.def.SortKey == "" {
		return true
	}
	return avEqual(item[t.def.SortKey], key[t.def.SortKey])
}

func (t *table) find(key map[string]types.AttributeValue) map[string]types.AttributeValue {
	for _, item := range t.items {
		if t.sameKey(item, key) {
			return item
		}
	}
	return nil
}

func (t *table) put(item map[string]types.AttributeValue) {
	stored := copyItem(item)
	for i, existing := range t.items {
		if t.sameKey(existing, item) {
			t.items[i] = stored
			return
		}
	}
	t.items = append(t.items, stored)
	sort.SliceStable(t.items, func(i, j int) bool {
		a, b := t.items[i], t.items[j]
		if pa, pb := stringOf(a[t.def.PartitionKey]), stringOf(b[t.def.PartitionKey]); pa != pb {
			return pa < pb
		}
		if t.def.SortKey == "" {
			return false
		}
		return stringOf(a[t.def.SortKey]) < stringOf(b[t.def.SortKey])
	})
}

func (t *table) delete(key map[string]types.AttributeValue) {
	for i, item := range t.items {
		if t.sameKey(item, key) {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

type keyCondition struct {
	pkAttr  string
	pkValue types.AttributeValue
	skAttr  string
	skValue types.AttributeValue
	skOp    string // "=" or "begins_with"
}

func (c keyCondition) skMatches(av types.AttributeValue) bool {
	switch c.skOp {
	case "=":
		return avEqual(av, c.skValue)
	case "begins_with":
		return strings.HasPrefix(stringOf(av), stringOf(c.skValue))
	}
	return false
}

// parseKeyCondition understands "pk = :v", "pk = :v AND sk = :w" and
// "pk = :v AND begins_with(sk, :w)".
func parseKeyCondition(expr string, names map[string]string, values map[string]types.AttributeValue) (keyCondition, error) {
	var cond keyCondition
	clauses := strings.Split(expr, " AND ")
	if len(clauses) < 1 || len(clauses) > 2 {
		return cond, fmt.Errorf("storagetest: unsupported key condition %q", expr)
	}

	attr, val, _, err := parseComparison(clauses[0], names, values)
	if err != nil {
		return cond, err
	}
	cond.pkAttr, cond.pkValue = attr, val

	if len(clauses) == 2 {
		clause := strings.TrimSpace(clauses[1])
		if strings.HasPrefix(clause, "begins_with(") {
			inner := strings.TrimSuffix(strings.TrimPrefix(clause, "begins_with("), ")")
			parts := strings.SplitN(inner, ",", 2)
			if len(parts) != 2 {
				return cond, fmt.Errorf("storagetest: malformed begins_with in %q", expr)
			}
			cond.skAttr = resolveName(strings.TrimSpace(parts[0]), names)
			v, ok := values[strings.TrimSpace(parts[1])]
			if !ok {
				return cond, fmt.Errorf("storagetest: unbound value in %q", expr)
			}
			cond.skValue, cond.skOp = v, "begins_with"
			return cond, nil
		}

		attr, val, _, err := parseComparison(clause, names, values)
		if err != nil {
			return cond, err
		}
		cond.skAttr, cond.skValue, cond.skOp = attr, val, "="
	}
	return cond, nil
}

type filterClause struct {
	attr  string
	value types.AttributeValue
	op    string
}

type filter struct {
	clauses []filterClause
}

func (f filter) matches(item map[string]types.AttributeValue) bool {
	for _, c := range f.clauses {
		av, ok := item[c.attr]
		if !ok {
			return false
		}
		switch c.op {
		case "=":
			if !avEqual(av, c.value) {
				return false
			}
		case "<":
			if !numberLess(av, c.value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// parseFilter understands conjunctions of "=" and "<" comparisons.
func parseFilter(expr string, names map[string]string, values map[string]types.AttributeValue) (filter, error) {
	var f filter
	for _, clause := range strings.Split(expr, " AND ") {
		attr, val, op, err := parseComparison(clause, names, values)
		if err != nil {
			return f, err
		}
		f.clauses = append(f.clauses, filterClause{attr: attr, value: val, op: op})
	}
	return f, nil
}

func parseComparison(clause string, names map[string]string, values map[string]types.AttributeValue) (string, types.AttributeValue, string, error) {
	for _, op := range []string{"=", "<"} {
		parts := strings.SplitN(clause, op, 2)
		if len(parts) != 2 {
			continue
		}
		attr := resolveName(strings.TrimSpace(parts[0]), names)
		val, ok := values[strings.TrimSpace(parts[1])]
		if !ok {
			return "", nil, "", fmt.Errorf("storagetest: unbound value in clause %q", clause)
		}
		return attr, val, op, nil
	}
	return "", nil, "", fmt.Errorf("storagetest: unsupported clause %q", clause)
}

func parseAttributeNotExists(expr string) (string, bool) {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, "attribute_not_exists(") || !strings.HasSuffix(trimmed, ")") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(trimmed, "attribute_not_exists("), ")"), true
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}

func avEqual(a, b types.AttributeValue) bool {
	return stringOf(a) != "" && stringOf(a) == stringOf(b) || (a == nil && b == nil)
}

func stringOf(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return strconv.FormatBool(v.Value)
	}
	return ""
}

func numberLess(a, b types.AttributeValue) bool {
	av, err1 := strconv.ParseFloat(stringOf(a), 64)
	bv, err2 := strconv.ParseFloat(stringOf(b), 64)
	return err1 == nil && err2 == nil && av < bv
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
