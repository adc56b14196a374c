package web

import "html/template"

type pageData struct {
	Grid      template.HTML // Pre-escaped by renderGrid
	Modal     template.HTML // Pre-escaped by renderModal
	Query     string
	RefreshMs int64
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Detection Shots</title>
<style>
  :root{--primary-color:#03a9f4;--secondary-text-color:#727272;}
  body{display:block;margin:12px;font-family:Roboto,Arial,Helvetica,sans-serif;}
  .placeholder{padding:12px;}
  .search{margin-bottom:8px;}
  .grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(120px,1fr));gap:8px;}
  .tile{position:relative;overflow:hidden;border-radius:6px;background:#f0f0f0;cursor:pointer;height:120px;display:flex;align-items:center;justify-content:center;}
  .tile img{width:100%;height:100%;object-fit:cover;display:block;}
  .overlay{position:absolute;right:6px;top:6px;background:rgba(0,0,0,0.45);color:#fff;font-size:12px;padding:4px 6px;border-radius:4px;}
  .modal{position:fixed;inset:0;display:flex;align-items:center;justify-content:center;background:rgba(0,0,0,0.75);z-index:1000;}
  .modal-content{max-width:95vw;max-height:95vh;background:#111;border-radius:6px;padding:8px;display:flex;flex-direction:column;align-items:center;}
  .modal img{max-width:90vw;max-height:80vh;object-fit:contain;}
  .actions{margin-top:8px;display:flex;gap:8px;}
  .btn{background:var(--primary-color);color:#fff;padding:8px 10px;border-radius:6px;cursor:pointer;border:none;font-size:14px;}
  .btn.secondary{background:rgba(255,255,255,0.12);}
  .empty{padding:12px;color:var(--secondary-text-color);}
</style>
</head>
<body>
<form class="search" method="get" action="/"><input type="search" name="q" value="{{.Query}}" placeholder="Filter"></form>
<div id="grid-root">{{.Grid}}</div>
<div id="modal-root">{{.Modal}}</div>
<script>
(function(){
  var gridRoot = document.getElementById('grid-root');
  var modalRoot = document.getElementById('modal-root');
  var query = {{.Query}};
  var refreshMs = {{.RefreshMs}};

  function closeModal(){ modalRoot.innerHTML = ''; }

  function openModal(id, title){
    var u = '/fragment/modal?id=' + encodeURIComponent(id) + '&title=' + encodeURIComponent(title || '');
    fetch(u, {credentials: 'same-origin'})
      .then(function(r){ return r.text(); })
      .then(function(html){ modalRoot.innerHTML = html; });
  }

  function download(btn){
    fetch(btn.getAttribute('data-url'), {credentials: 'same-origin'})
      .then(function(resp){
        if (!resp.ok) throw new Error('status ' + resp.status);
        return resp.blob();
      })
      .then(function(blob){
        var urlBlob = URL.createObjectURL(blob);
        var a = document.createElement('a');
        a.href = urlBlob;
        a.download = btn.getAttribute('data-filename');
        document.body.appendChild(a);
        a.click();
        a.remove();
        URL.revokeObjectURL(urlBlob);
      })
      .catch(function(err){
        console.error('Download failed', err);
        alert('Download failed');
      });
  }

  gridRoot.addEventListener('click', function(ev){
    var tile = ev.target.closest('.tile');
    if (tile) openModal(tile.getAttribute('data-id'), tile.getAttribute('title'));
  });

  modalRoot.addEventListener('click', function(ev){
    if (ev.target.id === 'modal' || ev.target.id === 'closeBtn') { closeModal(); return; }
    if (ev.target.id === 'downloadBtn') download(ev.target);
  });

  if (refreshMs > 0) {
    setInterval(function(){
      fetch('/fragment/grid?q=' + encodeURIComponent(query), {credentials: 'same-origin'})
        .then(function(r){ return r.text(); })
        .then(function(html){ gridRoot.innerHTML = html; });
    }, refreshMs);
  }
})();
</script>
</body>
</html>
`))

// htmlFragment marks a renderGrid or renderModal result as markup
func htmlFragment(s string) template.HTML {
	return template.HTML(s)
}
